package model

import (
	"time"

	"github.com/gigbook/herald/pkg/domain/types"
)

// Event is a read-only projection of a scheduled event (show, gig, session)
// owned by the calendar collaborator.
type Event struct {
	ID       string
	UserID   types.UserID
	Title    string
	Venue    string
	Status   types.EventStatus
	StartsAt time.Time
}

// WorkItem is a read-only projection of an outstanding task. EventID links
// the item to the event it prepares, when there is one.
type WorkItem struct {
	ID          string
	UserID      types.UserID
	Title       string
	Status      types.WorkItemStatus
	Category    types.WorkItemCategory
	EventID     string
	DueAt       *time.Time
	CompletedAt *time.Time
}

// IsOverdue reports whether the item is still open past its due date
func (w *WorkItem) IsOverdue(now time.Time) bool {
	return w.Status.IsOpen() && w.DueAt != nil && w.DueAt.Before(now)
}

// WorkItemFilter narrows ListWorkItems. Nil fields match everything.
type WorkItemFilter struct {
	Status   *types.WorkItemStatus
	Category *types.WorkItemCategory
}

// Match reports whether w satisfies the filter
func (f WorkItemFilter) Match(w *WorkItem) bool {
	if f.Status != nil && w.Status != *f.Status {
		return false
	}
	if f.Category != nil && w.Category != *f.Category {
		return false
	}
	return true
}

// GoalTracker is a read-only projection of a KPI the user is working toward
type GoalTracker struct {
	ID      string
	UserID  types.UserID
	Title   string
	Status  types.GoalStatus
	Current float64
	Target  float64
	DueAt   *time.Time
}

// Reached reports whether the tracked value has met its target
func (g *GoalTracker) Reached() bool {
	return g.Status == types.GoalStatusAchieved ||
		(g.Status == types.GoalStatusActive && g.Target > 0 && g.Current >= g.Target)
}

// ReleaseWindow is a read-only projection of a planned release period
type ReleaseWindow struct {
	ID       string
	UserID   types.UserID
	Title    string
	Status   types.ReleaseWindowStatus
	OpensAt  time.Time
	ClosesAt time.Time
}

// Snapshots bundles everything one sweep read for one user. Evaluators only
// read from it.
type Snapshots struct {
	UserID         types.UserID
	Now            time.Time
	Location       *time.Location
	Activity       ActivitySnapshot
	Events         []*Event
	WorkItems      []*WorkItem
	Goals          []*GoalTracker
	ReleaseWindows []*ReleaseWindow

	// Degraded is set when at least one reader failed during the sweep
	Degraded bool

	eventsByID map[string]*Event
	itemsByEvt map[string][]*WorkItem
}

// EventByID returns the event with the given ID, or nil
func (s *Snapshots) EventByID(id string) *Event {
	if s.eventsByID == nil {
		s.index()
	}
	return s.eventsByID[id]
}

// WorkItemsForEvent returns all work items linked to the event
func (s *Snapshots) WorkItemsForEvent(eventID string) []*WorkItem {
	if s.eventsByID == nil {
		s.index()
	}
	return s.itemsByEvt[eventID]
}

// Index builds lookup tables. It must be called before the snapshots are
// shared between goroutines.
func (s *Snapshots) Index() {
	s.index()
}

func (s *Snapshots) index() {
	s.eventsByID = make(map[string]*Event, len(s.Events))
	for _, e := range s.Events {
		s.eventsByID[e.ID] = e
	}
	s.itemsByEvt = make(map[string][]*WorkItem)
	for _, w := range s.WorkItems {
		if w.EventID != "" {
			s.itemsByEvt[w.EventID] = append(s.itemsByEvt[w.EventID], w)
		}
	}
}

// IsEmpty reports whether the user has no entities at all in any domain
func (s *Snapshots) IsEmpty() bool {
	return len(s.Events) == 0 && len(s.WorkItems) == 0 &&
		len(s.Goals) == 0 && len(s.ReleaseWindows) == 0
}
