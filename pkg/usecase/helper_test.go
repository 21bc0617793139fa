package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/gigbook/herald/pkg/domain/interfaces"
	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
	"github.com/gigbook/herald/pkg/repository/memory"
	"github.com/gigbook/herald/pkg/usecase"
	"github.com/gigbook/herald/pkg/utils/clock"
)

const testUser types.UserID = "user-1"

var sweepNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestUseCase(t *testing.T, repo interfaces.Repository, clk clock.Clock, opts ...usecase.Option) *usecase.NotificationUseCase {
	t.Helper()

	opts = append([]usecase.Option{
		usecase.WithClock(clk),
		usecase.WithVariantSelector(usecase.FirstVariant),
	}, opts...)

	uc, err := usecase.New(repo, opts...)
	gt.NoError(t, err).Required()
	return uc.Notification
}

func byRule(list []*model.Notification, key types.RuleKey) []*model.Notification {
	var out []*model.Notification
	for _, n := range list {
		if n.RuleKey == key {
			out = append(out, n)
		}
	}
	return out
}

func containsID(list []*model.Notification, id types.NotificationID) bool {
	for _, n := range list {
		if n.ID == id {
			return true
		}
	}
	return false
}

// seedRiverside stages an event five days out with an unsigned contract
func seedRiverside(t *testing.T, repo *memory.Memory) {
	t.Helper()
	ctx := context.Background()

	gt.NoError(t, repo.PutSession(ctx, testUser, sweepNow.Add(-time.Hour))).Required()
	gt.NoError(t, repo.PutEvents(ctx, []*model.Event{{
		ID:       "evt-1",
		UserID:   testUser,
		Title:    "Riverside Gig",
		Venue:    "Riverside Hall",
		Status:   types.EventStatusConfirmed,
		StartsAt: sweepNow.Add(5 * 24 * time.Hour),
	}})).Required()
	gt.NoError(t, repo.PutWorkItems(ctx, []*model.WorkItem{{
		ID:       "task-1",
		UserID:   testUser,
		Title:    "Sign contract",
		Status:   types.WorkItemStatusPending,
		Category: types.WorkItemCategoryLegal,
		EventID:  "evt-1",
	}})).Required()
}

var errUnavailable = errors.New("backend unavailable")

// faultyRepo overrides selected parts of a working repository
type faultyRepo struct {
	interfaces.Repository
	events       interfaces.EventReader
	notification interfaces.NotificationRepository
}

func (r *faultyRepo) Event() interfaces.EventReader {
	if r.events != nil {
		return r.events
	}
	return r.Repository.Event()
}

func (r *faultyRepo) Notification() interfaces.NotificationRepository {
	if r.notification != nil {
		return r.notification
	}
	return r.Repository.Notification()
}

type failingEventReader struct{}

func (failingEventReader) ListEvents(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.Event, error) {
	return nil, errUnavailable
}

// switchableStore fails the selected operations while the flags are set
type switchableStore struct {
	interfaces.NotificationRepository
	failReads  atomic.Bool
	failWrites atomic.Bool
}

func (s *switchableStore) List(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	if s.failReads.Load() {
		return nil, errUnavailable
	}
	return s.NotificationRepository.List(ctx, userID)
}

func (s *switchableStore) ListActive(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	if s.failReads.Load() {
		return nil, errUnavailable
	}
	return s.NotificationRepository.ListActive(ctx, userID)
}

func (s *switchableStore) CreateMany(ctx context.Context, userID types.UserID, notifications []*model.Notification) error {
	if s.failWrites.Load() {
		return errUnavailable
	}
	return s.NotificationRepository.CreateMany(ctx, userID, notifications)
}

func (s *switchableStore) Touch(ctx context.Context, userID types.UserID, ids []types.NotificationID, seenAt time.Time) error {
	if s.failWrites.Load() {
		return errUnavailable
	}
	return s.NotificationRepository.Touch(ctx, userID, ids, seenAt)
}
