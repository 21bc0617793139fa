package types

// EventStatus is the lifecycle state of a scheduled event (show, gig, session)
type EventStatus string

const (
	EventStatusTentative EventStatus = "tentative"
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// IsOpen reports whether the event has not been closed out yet
func (s EventStatus) IsOpen() bool {
	return s == EventStatusTentative || s == EventStatusConfirmed
}

// IsActive reports whether the event still counts toward the user's calendar.
// Unknown statuses are treated as active.
func (s EventStatus) IsActive() bool {
	return s != EventStatusCompleted && s != EventStatusCancelled
}

func (s EventStatus) String() string { return string(s) }

// WorkItemStatus is the state of an outstanding work item
type WorkItemStatus string

const (
	WorkItemStatusPending    WorkItemStatus = "pending"
	WorkItemStatusInProgress WorkItemStatus = "in_progress"
	WorkItemStatusDone       WorkItemStatus = "done"
)

// IsOpen reports whether the work item still needs attention
func (s WorkItemStatus) IsOpen() bool {
	return s != WorkItemStatusDone
}

func (s WorkItemStatus) String() string { return string(s) }

// WorkItemCategory is the tag a collaborator attaches to a work item
type WorkItemCategory string

const (
	WorkItemCategoryLegal      WorkItemCategory = "legal"
	WorkItemCategoryFinancial  WorkItemCategory = "financial"
	WorkItemCategoryLogistics  WorkItemCategory = "logistics"
	WorkItemCategoryProduction WorkItemCategory = "production"
	WorkItemCategoryMarketing  WorkItemCategory = "marketing"
	WorkItemCategoryGeneral    WorkItemCategory = "general"
)

func (c WorkItemCategory) String() string { return string(c) }

// GoalStatus is the state of a goal tracker (KPI)
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusAchieved  GoalStatus = "achieved"
	GoalStatusAbandoned GoalStatus = "abandoned"
)

func (s GoalStatus) String() string { return string(s) }

// ReleaseWindowStatus is the state of a release window
type ReleaseWindowStatus string

const (
	ReleaseWindowStatusPlanned ReleaseWindowStatus = "planned"
	ReleaseWindowStatusOpen    ReleaseWindowStatus = "open"
	ReleaseWindowStatusClosed  ReleaseWindowStatus = "closed"
)

func (s ReleaseWindowStatus) String() string { return string(s) }
