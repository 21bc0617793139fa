package interfaces

import (
	"context"
	"time"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

// NotificationRepository persists notifications per user. Writes are
// column-scoped so that a concurrent Dismiss is never overwritten by a sweep.
type NotificationRepository interface {
	// List returns every stored notification of the user, dismissed or not
	List(ctx context.Context, userID types.UserID) ([]*model.Notification, error)

	// ListActive returns the non-dismissed notifications of the user
	ListActive(ctx context.Context, userID types.UserID) ([]*model.Notification, error)

	// Get returns a single notification or an error wrapping ErrNotFound
	Get(ctx context.Context, userID types.UserID, id types.NotificationID) (*model.Notification, error)

	// CreateMany inserts notifications whose (user, id) is not stored yet.
	// Existing rows are left untouched.
	CreateMany(ctx context.Context, userID types.UserID, notifications []*model.Notification) error

	// Touch sets last_seen_at on the given notifications and changes nothing else
	Touch(ctx context.Context, userID types.UserID, ids []types.NotificationID, seenAt time.Time) error

	// Dismiss flags a notification as dismissed
	Dismiss(ctx context.Context, userID types.UserID, id types.NotificationID) error
}
