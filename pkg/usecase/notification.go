package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/gigbook/herald/pkg/domain/interfaces"
	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/model/config"
	"github.com/gigbook/herald/pkg/domain/types"
	"github.com/gigbook/herald/pkg/utils/clock"
	"github.com/gigbook/herald/pkg/utils/errutil"
	"github.com/gigbook/herald/pkg/utils/logging"
)

// NotificationUseCase runs sweeps and serves the ranked active list
type NotificationUseCase struct {
	repo     interfaces.Repository
	cfg      *config.EngineConfig
	clock    clock.Clock
	rules    []Rule
	renderer *Renderer

	// locks holds one *sync.Mutex per user; all store writes of a user go through it
	locks sync.Map

	cacheMu  sync.RWMutex
	lastGood map[types.UserID][]*model.Notification
}

func NewNotificationUseCase(repo interfaces.Repository, cfg *config.EngineConfig, c clock.Clock, rules []Rule, renderer *Renderer) *NotificationUseCase {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	if c == nil {
		c = clock.Real()
	}
	return &NotificationUseCase{
		repo:     repo,
		cfg:      cfg,
		clock:    c,
		rules:    rules,
		renderer: renderer,
		lastGood: make(map[types.UserID][]*model.Notification),
	}
}

func (uc *NotificationUseCase) userLock(userID types.UserID) *sync.Mutex {
	l, _ := uc.locks.LoadOrStore(userID, &sync.Mutex{})
	return l.(*sync.Mutex)
}

// RunSweep evaluates every rule for the user, persists new notifications and
// returns the ranked active list. Running it twice on unchanged data creates
// nothing new. Only an invalid user or a cancelled context yields an error;
// source and store failures degrade the result instead.
func (uc *NotificationUseCase) RunSweep(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	if userID == "" {
		return nil, goerr.Wrap(ErrInvalidUserID, "user id is required")
	}

	sweepID, err := uuid.NewV7()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate sweep id")
	}
	logger := logging.From(ctx).With("sweep_id", sweepID.String(), UserIDKey, userID.String())
	ctx = logging.With(ctx, logger)

	started := uc.clock.Now()
	snapshots := uc.readSnapshots(ctx, userID, started)

	drafts, faulted := uc.evaluate(ctx, snapshots)
	if len(drafts) == 0 && !faulted && !snapshots.Degraded {
		drafts = append(drafts, newDraft(allClearRule, Match{ActionRef: "dashboard"}))
	}

	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "sweep cancelled before persistence", goerr.V(UserIDKey, userID))
	}

	lock := uc.userLock(userID)
	lock.Lock()
	active := uc.persist(ctx, userID, drafts, uc.clock.Now())
	lock.Unlock()

	rankNotifications(active)

	logger.Info("sweep finished",
		"drafts", len(drafts),
		"active", len(active),
		"degraded", snapshots.Degraded,
		"faulted", faulted,
		"duration", uc.clock.Now().Sub(started),
	)

	return truncate(active, uc.cfg.MaxResults), nil
}

// persist merges drafts into the store and returns the active list. A write
// failure returns the merged list; a read failure falls back to the last good list.
func (uc *NotificationUseCase) persist(ctx context.Context, userID types.UserID, drafts []*model.NotificationDraft, now time.Time) []*model.Notification {
	stored, err := uc.repo.Notification().List(ctx, userID)
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(ErrStoreUnavailable, err.Error(), goerr.V(UserIDKey, userID)),
			"failed to read notifications, serving last good list")
		return uc.fromLastGood(userID, drafts, now)
	}

	byID := make(map[types.NotificationID]*model.Notification, len(stored))
	for _, n := range stored {
		byID[n.ID] = n
	}

	var (
		created []*model.Notification
		touched []types.NotificationID
	)
	seen := make(map[types.NotificationID]struct{}, len(drafts))
	for _, d := range drafts {
		id := d.ID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if existing, ok := byID[id]; ok {
			if !existing.Dismissed {
				existing.LastSeenAt = now
				touched = append(touched, id)
			}
			continue
		}

		n := uc.render(userID, d, now)
		created = append(created, n)
		byID[id] = n
	}

	persisted := true
	if err := uc.repo.Notification().CreateMany(ctx, userID, created); err != nil {
		persisted = false
		errutil.Handle(ctx, goerr.Wrap(ErrStoreUnavailable, err.Error(),
			goerr.V(UserIDKey, userID), goerr.V("count", len(created))),
			"failed to create notifications, will retry next sweep")
	}
	if err := uc.repo.Notification().Touch(ctx, userID, touched, now); err != nil {
		errutil.Warn(ctx, goerr.Wrap(ErrStoreUnavailable, err.Error(),
			goerr.V(UserIDKey, userID), goerr.V("count", len(touched))),
			"failed to refresh last seen, will retry next sweep")
	}

	active := make([]*model.Notification, 0, len(byID))
	for _, n := range byID {
		if !n.Dismissed {
			active = append(active, n)
		}
	}

	if persisted {
		uc.storeLastGood(userID, active)
	}
	return active
}

// fromLastGood serves the last successfully persisted active list while the
// store cannot be read. Drafts are only used to refresh LastSeenAt of cached
// entries; nothing is rendered, so dismissed or unknown ids never surface and
// stored text and CreatedAt stay as they were.
func (uc *NotificationUseCase) fromLastGood(userID types.UserID, drafts []*model.NotificationDraft, now time.Time) []*model.Notification {
	firing := make(map[types.NotificationID]struct{}, len(drafts))
	for _, d := range drafts {
		firing[d.ID()] = struct{}{}
	}

	active := uc.loadLastGood(userID)
	for _, n := range active {
		if _, ok := firing[n.ID]; ok {
			n.LastSeenAt = now
		}
	}
	return active
}

func (uc *NotificationUseCase) render(userID types.UserID, d *model.NotificationDraft, now time.Time) *model.Notification {
	title, message := uc.renderer.Render(d)
	return &model.Notification{
		ID:             d.ID(),
		UserID:         userID,
		Category:       d.Category,
		RuleKey:        d.RuleKey,
		Urgency:        d.Urgency,
		Title:          title,
		Message:        message,
		ActionLabel:    d.ActionLabel,
		ActionRef:      d.ActionRef,
		SourceEntityID: d.SourceEntityID,
		CreatedAt:      now,
		LastSeenAt:     now,
	}
}

func (uc *NotificationUseCase) storeLastGood(userID types.UserID, active []*model.Notification) {
	snapshot := make([]*model.Notification, len(active))
	for i, n := range active {
		snapshot[i] = n.Clone()
	}

	uc.cacheMu.Lock()
	defer uc.cacheMu.Unlock()
	uc.lastGood[userID] = snapshot
}

// loadLastGood returns copies so callers may mutate them
func (uc *NotificationUseCase) loadLastGood(userID types.UserID) []*model.Notification {
	uc.cacheMu.RLock()
	defer uc.cacheMu.RUnlock()

	cached := uc.lastGood[userID]
	result := make([]*model.Notification, len(cached))
	for i, n := range cached {
		result[i] = n.Clone()
	}
	return result
}

func (uc *NotificationUseCase) forgetCached(userID types.UserID, id types.NotificationID) {
	uc.cacheMu.Lock()
	defer uc.cacheMu.Unlock()

	cached := uc.lastGood[userID]
	kept := cached[:0:0]
	for _, n := range cached {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	uc.lastGood[userID] = kept
}

// GetActiveNotifications returns the ranked, non-dismissed notifications of
// the user. limit <= 0 applies the configured maximum. When the store is
// unreachable the last successfully persisted list is served instead.
func (uc *NotificationUseCase) GetActiveNotifications(ctx context.Context, userID types.UserID, limit int) ([]*model.Notification, error) {
	if userID == "" {
		return nil, goerr.Wrap(ErrInvalidUserID, "user id is required")
	}

	active, err := uc.repo.Notification().ListActive(ctx, userID)
	if err != nil {
		uc.cacheMu.RLock()
		_, cached := uc.lastGood[userID]
		uc.cacheMu.RUnlock()
		if !cached {
			return nil, goerr.Wrap(ErrStoreUnavailable, err.Error(), goerr.V(UserIDKey, userID))
		}

		errutil.Warn(ctx, goerr.Wrap(ErrStoreUnavailable, err.Error(), goerr.V(UserIDKey, userID)),
			"failed to list notifications, serving last good list")
		active = uc.loadLastGood(userID)
	}

	rankNotifications(active)

	if limit <= 0 {
		limit = uc.cfg.MaxResults
	}
	return truncate(active, limit), nil
}

// Dismiss flags the notification so that no later sweep re-surfaces it
func (uc *NotificationUseCase) Dismiss(ctx context.Context, userID types.UserID, id types.NotificationID) error {
	if userID == "" {
		return goerr.Wrap(ErrInvalidUserID, "user id is required")
	}

	lock := uc.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := uc.repo.Notification().Dismiss(ctx, userID, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrNotificationNotFound, "cannot dismiss",
				goerr.V(UserIDKey, userID), goerr.V(NotificationIDKey, id))
		}
		return goerr.Wrap(err, "failed to dismiss notification",
			goerr.V(UserIDKey, userID), goerr.V(NotificationIDKey, id))
	}

	uc.forgetCached(userID, id)
	logging.From(ctx).Info("notification dismissed", UserIDKey, userID.String(), NotificationIDKey, id.String())
	return nil
}
