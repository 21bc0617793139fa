package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
	"github.com/gigbook/herald/pkg/utils/errutil"
	"github.com/gigbook/herald/pkg/utils/logging"
)

// Sweeper runs one sweep for one user
type Sweeper interface {
	RunSweep(ctx context.Context, userID types.UserID) ([]*model.Notification, error)
}

// SweepScheduler runs periodic sweeps for every tracked user. Each user gets
// an independent loop; a tick that arrives while that user's sweep is still
// running is dropped.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Tracked users live in memory and are lost on restart; the next request re-tracks them
type SweepScheduler struct {
	sweeper  Sweeper
	interval time.Duration

	mu      sync.Mutex
	baseCtx context.Context
	cancel  context.CancelFunc
	users   map[types.UserID]*trackedUser
	running map[types.UserID]*atomic.Bool
	stopped bool
	wg      sync.WaitGroup
}

// trackedUser shares its running flag with earlier loops of the same user, so
// a re-tracked user cannot start a sweep while a cancelled one is finishing.
type trackedUser struct {
	cancel  context.CancelFunc
	running *atomic.Bool
}

// NewSweepScheduler creates a scheduler. Start must be called before Track.
func NewSweepScheduler(sweeper Sweeper, interval time.Duration) *SweepScheduler {
	return &SweepScheduler{
		sweeper:  sweeper,
		interval: interval,
		users:    make(map[types.UserID]*trackedUser),
		running:  make(map[types.UserID]*atomic.Bool),
	}
}

// Start binds the scheduler to ctx. Cancelling ctx stops every user loop.
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.baseCtx, s.cancel = context.WithCancel(ctx)
	logging.Default().Info("Sweep scheduler starting", "interval", s.interval.String())
	return nil
}

// Stop cancels all user loops and in-flight sweeps and waits for them
func (s *SweepScheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	s.users = make(map[types.UserID]*trackedUser)
	s.mu.Unlock()

	logging.Default().Info("Sweep scheduler stopping")
	s.wg.Wait()
	logging.Default().Info("Sweep scheduler stopped")
}

// Track registers the user and sweeps once right away, unless a sweep from an
// earlier loop of the same user is still finishing. It returns false when the
// user is already tracked or the scheduler is not running.
func (s *SweepScheduler) Track(userID types.UserID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.baseCtx == nil {
		return false
	}
	if _, ok := s.users[userID]; ok {
		return false
	}

	running, ok := s.running[userID]
	if !ok {
		running = &atomic.Bool{}
		s.running[userID] = running
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	u := &trackedUser{cancel: cancel, running: running}
	s.users[userID] = u

	s.wg.Add(1)
	go s.run(ctx, userID, u)

	logging.Default().Info("User tracked for sweeps", "user_id", userID.String())
	return true
}

// Untrack ends the user's loop and cancels a sweep in flight. Whatever that
// sweep already persisted is kept.
func (s *SweepScheduler) Untrack(userID types.UserID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return false
	}
	u.cancel()
	delete(s.users, userID)

	logging.Default().Info("User untracked", "user_id", userID.String())
	return true
}

// IsTracked reports whether the user has a running loop
func (s *SweepScheduler) IsTracked(userID types.UserID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[userID]
	return ok
}

func (s *SweepScheduler) run(ctx context.Context, userID types.UserID, u *trackedUser) {
	defer s.wg.Done()

	s.trigger(ctx, userID, u)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.trigger(ctx, userID, u)

		case <-ctx.Done():
			return
		}
	}
}

// trigger starts a sweep unless one is already running for the user
func (s *SweepScheduler) trigger(ctx context.Context, userID types.UserID, u *trackedUser) {
	if !u.running.CompareAndSwap(false, true) {
		logging.Default().Debug("Sweep still running, skipping tick", "user_id", userID.String())
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer u.running.Store(false)

		if _, err := s.sweeper.RunSweep(ctx, userID); err != nil {
			if ctx.Err() != nil {
				logging.Default().Info("Sweep cancelled", "user_id", userID.String())
				return
			}
			errutil.Handle(ctx, err, "sweep failed (will retry next interval)")
		}
	}()
}
