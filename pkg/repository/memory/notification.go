package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

type notificationRepository struct {
	mu            sync.RWMutex
	notifications map[types.UserID]map[types.NotificationID]*model.Notification
}

func newNotificationRepository() *notificationRepository {
	return &notificationRepository{
		notifications: make(map[types.UserID]map[types.NotificationID]*model.Notification),
	}
}

func (r *notificationRepository) List(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Notification, 0, len(r.notifications[userID]))
	for _, n := range r.notifications[userID] {
		result = append(result, n.Clone())
	}
	return result, nil
}

func (r *notificationRepository) ListActive(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Notification, 0)
	for _, n := range r.notifications[userID] {
		if !n.Dismissed {
			result = append(result, n.Clone())
		}
	}
	return result, nil
}

func (r *notificationRepository) Get(ctx context.Context, userID types.UserID, id types.NotificationID) (*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[userID][id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "notification not found",
			goerr.V("user_id", userID), goerr.V("id", id))
	}
	return n.Clone(), nil
}

func (r *notificationRepository) CreateMany(ctx context.Context, userID types.UserID, notifications []*model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.notifications[userID] == nil {
		r.notifications[userID] = make(map[types.NotificationID]*model.Notification)
	}
	for _, n := range notifications {
		if _, exists := r.notifications[userID][n.ID]; exists {
			continue
		}
		c := n.Clone()
		c.UserID = userID
		r.notifications[userID][n.ID] = c
	}
	return nil
}

func (r *notificationRepository) Touch(ctx context.Context, userID types.UserID, ids []types.NotificationID, seenAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if n, ok := r.notifications[userID][id]; ok {
			n.LastSeenAt = seenAt
		}
	}
	return nil
}

func (r *notificationRepository) Dismiss(ctx context.Context, userID types.UserID, id types.NotificationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[userID][id]
	if !ok {
		return goerr.Wrap(ErrNotFound, "notification not found",
			goerr.V("user_id", userID), goerr.V("id", id))
	}
	n.Dismissed = true
	return nil
}
