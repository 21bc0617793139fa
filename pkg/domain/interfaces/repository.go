package interfaces

import (
	"context"
	"time"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

// Repository bundles the snapshot readers consumed from collaborators and the
// notification store owned by the engine.
type Repository interface {
	Event() EventReader
	WorkItem() WorkItemReader
	Goal() GoalReader
	ReleaseWindow() ReleaseWindowReader
	Session() SessionReader
	Notification() NotificationRepository

	Close() error
}

// EventReader lists scheduled events whose start falls within [from, to]
type EventReader interface {
	ListEvents(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.Event, error)
}

// WorkItemReader lists work items matching the filter
type WorkItemReader interface {
	ListWorkItems(ctx context.Context, userID types.UserID, filter model.WorkItemFilter) ([]*model.WorkItem, error)
}

// GoalReader lists all goal trackers of a user
type GoalReader interface {
	ListGoals(ctx context.Context, userID types.UserID) ([]*model.GoalTracker, error)
}

// ReleaseWindowReader lists release windows overlapping [from, to]
type ReleaseWindowReader interface {
	ListReleaseWindows(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.ReleaseWindow, error)
}

// SessionReader returns the start of the user's most recent session, or nil
// when the user has no session history.
type SessionReader interface {
	LastSessionAt(ctx context.Context, userID types.UserID) (*time.Time, error)
}
