package interfaces

import (
	"context"
	"time"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

// Seeder loads collaborator-owned records into a backend. The engine itself
// never writes these; the sweep command and tests use it to stage data.
type Seeder interface {
	PutEvents(ctx context.Context, events []*model.Event) error
	PutWorkItems(ctx context.Context, items []*model.WorkItem) error
	PutGoals(ctx context.Context, goals []*model.GoalTracker) error
	PutReleaseWindows(ctx context.Context, windows []*model.ReleaseWindow) error
	PutSession(ctx context.Context, userID types.UserID, startedAt time.Time) error
}
