package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
	"github.com/gigbook/herald/pkg/service/worker"
)

// mockSweeper counts sweeps per user and can hold them until released
type mockSweeper struct {
	mu       sync.Mutex
	calls    map[types.UserID]int
	block    chan struct{}
	canceled int

	// ignoreCancel holds sweeps until release even after cancellation
	ignoreCancel bool
	inflight     int
	maxInflight  int
}

func newMockSweeper() *mockSweeper {
	return &mockSweeper{calls: make(map[types.UserID]int)}
}

func (m *mockSweeper) RunSweep(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	m.mu.Lock()
	m.calls[userID]++
	m.inflight++
	if m.inflight > m.maxInflight {
		m.maxInflight = m.inflight
	}
	block := m.block
	ignoreCancel := m.ignoreCancel
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inflight--
		m.mu.Unlock()
	}()

	if block != nil && ignoreCancel {
		<-block
		return nil, nil
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			m.mu.Lock()
			m.canceled++
			m.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	return nil, nil
}

func (m *mockSweeper) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	close(m.block)
	m.block = nil
}

func (m *mockSweeper) count(userID types.UserID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[userID]
}

func (m *mockSweeper) canceledCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canceled
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSweepScheduler_EagerAndPeriodic(t *testing.T) {
	sweeper := newMockSweeper()
	s := worker.NewSweepScheduler(sweeper, 20*time.Millisecond)
	gt.NoError(t, s.Start(context.Background())).Required()
	defer s.Stop()

	gt.Bool(t, s.Track("user-1")).True()
	gt.Bool(t, s.Track("user-1")).False()
	gt.Bool(t, s.IsTracked("user-1")).True()

	waitFor(t, func() bool { return sweeper.count("user-1") >= 1 })
	waitFor(t, func() bool { return sweeper.count("user-1") >= 3 })
}

func TestSweepScheduler_SkipsOverlappingTicks(t *testing.T) {
	sweeper := newMockSweeper()
	sweeper.block = make(chan struct{})

	s := worker.NewSweepScheduler(sweeper, 5*time.Millisecond)
	gt.NoError(t, s.Start(context.Background())).Required()
	defer s.Stop()

	s.Track("user-1")
	waitFor(t, func() bool { return sweeper.count("user-1") == 1 })

	// many intervals elapse while the first sweep is held
	time.Sleep(60 * time.Millisecond)
	gt.Value(t, sweeper.count("user-1")).Equal(1)

	sweeper.release()
	waitFor(t, func() bool { return sweeper.count("user-1") >= 2 })
}

func TestSweepScheduler_UsersAreIndependent(t *testing.T) {
	sweeper := newMockSweeper()
	s := worker.NewSweepScheduler(sweeper, time.Hour)
	gt.NoError(t, s.Start(context.Background())).Required()
	defer s.Stop()

	s.Track("user-1")
	s.Track("user-2")

	waitFor(t, func() bool { return sweeper.count("user-1") == 1 && sweeper.count("user-2") == 1 })
}

func TestSweepScheduler_UntrackCancelsInFlightSweep(t *testing.T) {
	sweeper := newMockSweeper()
	sweeper.block = make(chan struct{})

	s := worker.NewSweepScheduler(sweeper, time.Hour)
	gt.NoError(t, s.Start(context.Background())).Required()
	defer s.Stop()

	s.Track("user-1")
	waitFor(t, func() bool { return sweeper.count("user-1") == 1 })

	gt.Bool(t, s.Untrack("user-1")).True()
	gt.Bool(t, s.Untrack("user-1")).False()
	gt.Bool(t, s.IsTracked("user-1")).False()

	waitFor(t, func() bool { return sweeper.canceledCount() == 1 })
}

func TestSweepScheduler_Stop(t *testing.T) {
	sweeper := newMockSweeper()
	sweeper.block = make(chan struct{})

	s := worker.NewSweepScheduler(sweeper, time.Hour)
	gt.Bool(t, s.Track("early")).False()

	gt.NoError(t, s.Start(context.Background())).Required()
	s.Track("user-1")
	waitFor(t, func() bool { return sweeper.count("user-1") == 1 })

	// returns only after the held sweep observed cancellation
	s.Stop()
	gt.Value(t, sweeper.canceledCount()).Equal(1)
	gt.Bool(t, s.Track("user-2")).False()

	s.Stop()
}

func (m *mockSweeper) maxConcurrent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInflight
}

func TestSweepScheduler_RetrackWaitsForFinishingSweep(t *testing.T) {
	sweeper := newMockSweeper()
	sweeper.block = make(chan struct{})
	sweeper.ignoreCancel = true

	s := worker.NewSweepScheduler(sweeper, 5*time.Millisecond)
	gt.NoError(t, s.Start(context.Background())).Required()
	defer s.Stop()

	s.Track("user-1")
	waitFor(t, func() bool { return sweeper.count("user-1") == 1 })

	gt.Bool(t, s.Untrack("user-1")).True()
	gt.Bool(t, s.Track("user-1")).True()

	// the cancelled sweep has not returned yet, so the new loop must not start one
	time.Sleep(60 * time.Millisecond)
	gt.Value(t, sweeper.count("user-1")).Equal(1)

	sweeper.release()
	waitFor(t, func() bool { return sweeper.count("user-1") >= 2 })
	gt.Value(t, sweeper.maxConcurrent()).Equal(1)
}
