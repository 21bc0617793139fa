package types

// RuleKey identifies the rule (evaluator and condition) that produced a draft.
// It is one third of a notification's identity.
type RuleKey string

const (
	RuleInactivity           RuleKey = "inactivity"
	RuleInactivityCritical   RuleKey = "inactivity_critical"
	RuleStaleScheduling      RuleKey = "stale_scheduling"
	RuleContractPending      RuleKey = "contract_pending"
	RulePaymentPending       RuleKey = "payment_pending"
	RuleLogisticsIncomplete  RuleKey = "logistics_incomplete"
	RuleSetlistMissing       RuleKey = "setlist_missing"
	RuleMarketingWindow      RuleKey = "marketing_window"
	RuleMilestone            RuleKey = "milestone"
	RuleNoUpcomingEvents     RuleKey = "no_upcoming_events"
	RuleSingleUpcomingEvent  RuleKey = "single_upcoming_event"
	RuleNoChecklist          RuleKey = "no_checklist"
	RuleGoalBehind           RuleKey = "goal_behind"
	RuleGoalAchieved         RuleKey = "goal_achieved"
	RuleReleaseWindowOpening RuleKey = "release_window_opening"
	RuleReleaseWindowClosing RuleKey = "release_window_closing"
	RuleAllClear             RuleKey = "all_clear"
)

func (k RuleKey) String() string { return string(k) }

// UserID identifies the owner of snapshots and notifications
type UserID string

func (u UserID) String() string { return string(u) }

// NotificationID is the deterministic identity of a notification, scoped per user
type NotificationID string

func (id NotificationID) String() string { return string(id) }
