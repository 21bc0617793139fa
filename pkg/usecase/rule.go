package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/model/config"
	"github.com/gigbook/herald/pkg/domain/types"
)

// Match is one firing of a rule
type Match struct {
	SourceEntityID string
	Variables      map[string]string
	ActionRef      string
}

// MatchFunc inspects the snapshots of one sweep. It must not modify them.
type MatchFunc func(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error)

// Rule is one entry of the evaluator registry. Adding a rule is adding a
// value to DefaultRules and a phrasing entry to the catalog.
type Rule struct {
	Key         types.RuleKey
	Category    types.Category
	Urgency     types.Urgency
	ActionLabel string
	Match       MatchFunc
}

// allClearRule is not part of the registry. It is applied once after every
// other rule ran and only when none of them produced a draft.
var allClearRule = Rule{
	Key:         types.RuleAllClear,
	Category:    types.CategoryGeneral,
	Urgency:     types.UrgencyLow,
	ActionLabel: "Plan ahead",
}

// DefaultRules returns the built-in rule registry
func DefaultRules() []Rule {
	return []Rule{
		{
			Key:         types.RuleInactivity,
			Category:    types.CategoryGeneral,
			Urgency:     types.UrgencyMedium,
			ActionLabel: "Review your dashboard",
			Match:       matchInactivity(false),
		},
		{
			Key:         types.RuleInactivityCritical,
			Category:    types.CategoryGeneral,
			Urgency:     types.UrgencyHigh,
			ActionLabel: "Catch up now",
			Match:       matchInactivity(true),
		},
		{
			Key:         types.RuleStaleScheduling,
			Category:    types.CategoryScheduling,
			Urgency:     types.UrgencyHigh,
			ActionLabel: "Close out event",
			Match:       matchStaleScheduling,
		},
		{
			Key:         types.RuleContractPending,
			Category:    types.CategoryLegal,
			Urgency:     types.UrgencyCritical,
			ActionLabel: "Review contract",
			Match:       matchPendingForEvent(isContractItem),
		},
		{
			Key:         types.RulePaymentPending,
			Category:    types.CategoryFinancial,
			Urgency:     types.UrgencyHigh,
			ActionLabel: "Settle payment",
			Match:       matchPendingForEvent(hasCategory(types.WorkItemCategoryFinancial)),
		},
		{
			Key:         types.RuleLogisticsIncomplete,
			Category:    types.CategoryLogistics,
			Urgency:     types.UrgencyMedium,
			ActionLabel: "Finish logistics",
			Match:       matchPendingForEvent(hasCategory(types.WorkItemCategoryLogistics)),
		},
		{
			Key:         types.RuleSetlistMissing,
			Category:    types.CategoryProduction,
			Urgency:     types.UrgencyMedium,
			ActionLabel: "Build setlist",
			Match:       matchSetlistMissing,
		},
		{
			Key:         types.RuleMarketingWindow,
			Category:    types.CategoryMarketing,
			Urgency:     types.UrgencyMedium,
			ActionLabel: "Promote event",
			Match:       matchMarketingWindow,
		},
		{
			Key:         types.RuleMilestone,
			Category:    types.CategoryMilestone,
			Urgency:     types.UrgencyLow,
			ActionLabel: "See progress",
			Match:       matchMilestone,
		},
		{
			Key:         types.RuleNoUpcomingEvents,
			Category:    types.CategoryOpportunity,
			Urgency:     types.UrgencyMedium,
			ActionLabel: "Book a show",
			Match:       matchNoUpcomingEvents,
		},
		{
			Key:         types.RuleSingleUpcomingEvent,
			Category:    types.CategoryOpportunity,
			Urgency:     types.UrgencyLow,
			ActionLabel: "Book another show",
			Match:       matchSingleUpcomingEvent,
		},
		{
			Key:         types.RuleNoChecklist,
			Category:    types.CategoryProduction,
			Urgency:     types.UrgencyMedium,
			ActionLabel: "Create checklist",
			Match:       matchNoChecklist,
		},
		{
			Key:         types.RuleGoalBehind,
			Category:    types.CategoryMilestone,
			Urgency:     types.UrgencyMedium,
			ActionLabel: "Review goal",
			Match:       matchGoalBehind,
		},
		{
			Key:         types.RuleGoalAchieved,
			Category:    types.CategoryMilestone,
			Urgency:     types.UrgencyLow,
			ActionLabel: "Celebrate",
			Match:       matchGoalAchieved,
		},
		{
			Key:         types.RuleReleaseWindowOpening,
			Category:    types.CategoryMarketing,
			Urgency:     types.UrgencyMedium,
			ActionLabel: "Prepare release",
			Match:       matchReleaseWindowOpening,
		},
		{
			Key:         types.RuleReleaseWindowClosing,
			Category:    types.CategoryMarketing,
			Urgency:     types.UrgencyHigh,
			ActionLabel: "Finish release",
			Match:       matchReleaseWindowClosing,
		},
	}
}

func dateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02")
}

// within reports whether t falls in [now, now+window]
func within(t, now time.Time, window time.Duration) bool {
	return !t.Before(now) && !t.After(now.Add(window))
}

// daysUntil rounds up so that an event later today reads as 0 and tomorrow as 1
func daysUntil(t, now time.Time) int {
	d := t.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + day - 1) / day)
}

func eventRef(id string) string    { return "event:" + id }
func workItemRef(id string) string { return "work_item:" + id }

func eventVariables(e *model.Event, s *model.Snapshots) map[string]string {
	return map[string]string{
		"event": e.Title,
		"venue": e.Venue,
		"date":  dateOf(e.StartsAt, s.Location),
		"days":  strconv.Itoa(daysUntil(e.StartsAt, s.Now)),
	}
}

func matchInactivity(critical bool) MatchFunc {
	return func(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
		days := s.Activity.InactivityDays
		fires := days >= cfg.InactivityDays && days < cfg.CriticalInactivityDays
		if critical {
			fires = days >= cfg.CriticalInactivityDays
		}
		if !fires {
			return nil, nil
		}

		// keyed by absence period: returning and leaving again yields a new notification
		return []Match{{
			SourceEntityID: "session:" + dateOf(s.Activity.LastActivityAt, s.Location),
			Variables: map[string]string{
				"days":      strconv.Itoa(days),
				"last_seen": dateOf(s.Activity.LastActivityAt, s.Location),
			},
			ActionRef: "dashboard",
		}}, nil
	}
}

func matchStaleScheduling(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
	var matches []Match
	for _, e := range s.Events {
		if e.StartsAt.Before(s.Now) && e.Status.IsOpen() {
			matches = append(matches, Match{
				SourceEntityID: e.ID,
				Variables:      eventVariables(e, s),
				ActionRef:      eventRef(e.ID),
			})
		}
	}
	return matches, nil
}

func isContractItem(w *model.WorkItem) bool {
	return w.Category == types.WorkItemCategoryLegal ||
		strings.Contains(strings.ToLower(w.Title), "contract")
}

func hasCategory(c types.WorkItemCategory) func(*model.WorkItem) bool {
	return func(w *model.WorkItem) bool {
		return w.Category == c
	}
}

// matchPendingForEvent fires for pending work items selected by pred whose
// linked event is still active and starts within the lead window.
func matchPendingForEvent(pred func(*model.WorkItem) bool) MatchFunc {
	return func(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
		var matches []Match
		for _, w := range s.WorkItems {
			if w.Status != types.WorkItemStatusPending || w.EventID == "" || !pred(w) {
				continue
			}
			e := s.EventByID(w.EventID)
			if e == nil || !e.Status.IsActive() || !within(e.StartsAt, s.Now, cfg.LeadWindow) {
				continue
			}

			vars := eventVariables(e, s)
			vars["task"] = w.Title
			matches = append(matches, Match{
				SourceEntityID: w.ID,
				Variables:      vars,
				ActionRef:      workItemRef(w.ID),
			})
		}
		return matches, nil
	}
}

func matchSetlistMissing(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
	var matches []Match
	for _, w := range s.WorkItems {
		if w.Status != types.WorkItemStatusPending || !strings.Contains(strings.ToLower(w.Title), "setlist") {
			continue
		}

		vars := map[string]string{"task": w.Title}
		if e := s.EventByID(w.EventID); e != nil {
			vars = eventVariables(e, s)
			vars["task"] = w.Title
		}
		matches = append(matches, Match{
			SourceEntityID: w.ID,
			Variables:      vars,
			ActionRef:      workItemRef(w.ID),
		})
	}
	return matches, nil
}

func matchMarketingWindow(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
	var matches []Match
	for _, e := range s.Events {
		if within(e.StartsAt, s.Now, cfg.MarketingWindow) {
			matches = append(matches, Match{
				SourceEntityID: e.ID,
				Variables:      eventVariables(e, s),
				ActionRef:      eventRef(e.ID),
			})
		}
	}
	return matches, nil
}

func matchMilestone(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
	n := s.Activity.CompletedTodayCount
	if n == 0 || n%cfg.MilestoneEvery != 0 {
		return nil, nil
	}

	today := dateOf(s.Now, s.Location)
	return []Match{{
		SourceEntityID: "day:" + today + "#" + strconv.Itoa(n),
		Variables:      map[string]string{"count": strconv.Itoa(n), "date": today},
		ActionRef:      "progress",
	}}, nil
}

func matchNoUpcomingEvents(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
	if s.Activity.ActiveEventCount != 0 {
		return nil, nil
	}
	// a user with nothing recorded and no absence is new, not idle
	if s.IsEmpty() && s.Activity.InactivityDays == 0 {
		return nil, nil
	}
	return []Match{{ActionRef: "events/new"}}, nil
}

func upcomingEvents(s *model.Snapshots) []*model.Event {
	var upcoming []*model.Event
	for _, e := range s.Events {
		if !e.StartsAt.Before(s.Now) && e.Status.IsActive() {
			upcoming = append(upcoming, e)
		}
	}
	return upcoming
}

func matchSingleUpcomingEvent(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
	if s.Activity.ActiveEventCount != 1 {
		return nil, nil
	}

	vars := map[string]string{}
	if upcoming := upcomingEvents(s); len(upcoming) == 1 {
		vars = eventVariables(upcoming[0], s)
	}
	return []Match{{Variables: vars, ActionRef: "events/new"}}, nil
}

func matchNoChecklist(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
	var matches []Match
	for _, e := range s.Events {
		if !e.Status.IsOpen() || !within(e.StartsAt, s.Now, cfg.LeadWindow) {
			continue
		}
		if len(s.WorkItemsForEvent(e.ID)) > 0 {
			continue
		}
		matches = append(matches, Match{
			SourceEntityID: e.ID,
			Variables:      eventVariables(e, s),
			ActionRef:      eventRef(e.ID),
		})
	}
	return matches, nil
}

func goalVariables(g *model.GoalTracker, s *model.Snapshots) map[string]string {
	vars := map[string]string{
		"goal":    g.Title,
		"current": strconv.FormatFloat(g.Current, 'f', -1, 64),
		"target":  strconv.FormatFloat(g.Target, 'f', -1, 64),
	}
	if g.DueAt != nil {
		vars["date"] = dateOf(*g.DueAt, s.Location)
		vars["days"] = strconv.Itoa(daysUntil(*g.DueAt, s.Now))
	}
	return vars
}

func matchGoalBehind(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
	var matches []Match
	for _, g := range s.Goals {
		if g.Status != types.GoalStatusActive || g.DueAt == nil || g.Reached() {
			continue
		}
		if !within(*g.DueAt, s.Now, cfg.LeadWindow) {
			continue
		}
		matches = append(matches, Match{
			SourceEntityID: g.ID,
			Variables:      goalVariables(g, s),
			ActionRef:      "goal:" + g.ID,
		})
	}
	return matches, nil
}

func matchGoalAchieved(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
	var matches []Match
	for _, g := range s.Goals {
		if g.Reached() {
			matches = append(matches, Match{
				SourceEntityID: g.ID,
				Variables:      goalVariables(g, s),
				ActionRef:      "goal:" + g.ID,
			})
		}
	}
	return matches, nil
}

func windowVariables(w *model.ReleaseWindow, at time.Time, s *model.Snapshots) map[string]string {
	return map[string]string{
		"window": w.Title,
		"date":   dateOf(at, s.Location),
		"days":   strconv.Itoa(daysUntil(at, s.Now)),
	}
}

func matchReleaseWindowOpening(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
	var matches []Match
	for _, w := range s.ReleaseWindows {
		if w.Status == types.ReleaseWindowStatusPlanned && within(w.OpensAt, s.Now, cfg.LeadWindow) {
			matches = append(matches, Match{
				SourceEntityID: w.ID,
				Variables:      windowVariables(w, w.OpensAt, s),
				ActionRef:      "release_window:" + w.ID,
			})
		}
	}
	return matches, nil
}

func matchReleaseWindowClosing(s *model.Snapshots, cfg *config.EngineConfig) ([]Match, error) {
	var matches []Match
	for _, w := range s.ReleaseWindows {
		if w.Status == types.ReleaseWindowStatusOpen && within(w.ClosesAt, s.Now, cfg.ReleaseClosingWindow) {
			matches = append(matches, Match{
				SourceEntityID: w.ID,
				Variables:      windowVariables(w, w.ClosesAt, s),
				ActionRef:      "release_window:" + w.ID,
			})
		}
	}
	return matches, nil
}
