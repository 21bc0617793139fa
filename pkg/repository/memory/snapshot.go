package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

type eventRepository struct {
	mu     sync.RWMutex
	events map[types.UserID]map[string]*model.Event
}

func newEventRepository() *eventRepository {
	return &eventRepository{events: make(map[types.UserID]map[string]*model.Event)}
}

func (r *eventRepository) ListEvents(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*model.Event, 0)
	for _, e := range r.events[userID] {
		if e.StartsAt.Before(from) || e.StartsAt.After(to) {
			continue
		}
		c := *e
		events = append(events, &c)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartsAt.Before(events[j].StartsAt) })
	return events, nil
}

func (r *eventRepository) put(events []*model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range events {
		if r.events[e.UserID] == nil {
			r.events[e.UserID] = make(map[string]*model.Event)
		}
		c := *e
		r.events[e.UserID][e.ID] = &c
	}
}

type workItemRepository struct {
	mu    sync.RWMutex
	items map[types.UserID]map[string]*model.WorkItem
}

func newWorkItemRepository() *workItemRepository {
	return &workItemRepository{items: make(map[types.UserID]map[string]*model.WorkItem)}
}

func copyWorkItem(w *model.WorkItem) *model.WorkItem {
	c := *w
	if w.DueAt != nil {
		due := *w.DueAt
		c.DueAt = &due
	}
	if w.CompletedAt != nil {
		done := *w.CompletedAt
		c.CompletedAt = &done
	}
	return &c
}

func (r *workItemRepository) ListWorkItems(ctx context.Context, userID types.UserID, filter model.WorkItemFilter) ([]*model.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*model.WorkItem, 0)
	for _, w := range r.items[userID] {
		if filter.Match(w) {
			items = append(items, copyWorkItem(w))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *workItemRepository) put(items []*model.WorkItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range items {
		if r.items[w.UserID] == nil {
			r.items[w.UserID] = make(map[string]*model.WorkItem)
		}
		r.items[w.UserID][w.ID] = copyWorkItem(w)
	}
}

type goalRepository struct {
	mu    sync.RWMutex
	goals map[types.UserID]map[string]*model.GoalTracker
}

func newGoalRepository() *goalRepository {
	return &goalRepository{goals: make(map[types.UserID]map[string]*model.GoalTracker)}
}

func copyGoal(g *model.GoalTracker) *model.GoalTracker {
	c := *g
	if g.DueAt != nil {
		due := *g.DueAt
		c.DueAt = &due
	}
	return &c
}

func (r *goalRepository) ListGoals(ctx context.Context, userID types.UserID) ([]*model.GoalTracker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := make([]*model.GoalTracker, 0, len(r.goals[userID]))
	for _, g := range r.goals[userID] {
		goals = append(goals, copyGoal(g))
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

func (r *goalRepository) put(goals []*model.GoalTracker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range goals {
		if r.goals[g.UserID] == nil {
			r.goals[g.UserID] = make(map[string]*model.GoalTracker)
		}
		r.goals[g.UserID][g.ID] = copyGoal(g)
	}
}

type releaseWindowRepository struct {
	mu      sync.RWMutex
	windows map[types.UserID]map[string]*model.ReleaseWindow
}

func newReleaseWindowRepository() *releaseWindowRepository {
	return &releaseWindowRepository{windows: make(map[types.UserID]map[string]*model.ReleaseWindow)}
}

func (r *releaseWindowRepository) ListReleaseWindows(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.ReleaseWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	windows := make([]*model.ReleaseWindow, 0)
	for _, w := range r.windows[userID] {
		// overlap test: the window must close after from and open before to
		if w.ClosesAt.Before(from) || w.OpensAt.After(to) {
			continue
		}
		c := *w
		windows = append(windows, &c)
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].OpensAt.Before(windows[j].OpensAt) })
	return windows, nil
}

func (r *releaseWindowRepository) put(windows []*model.ReleaseWindow) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range windows {
		if r.windows[w.UserID] == nil {
			r.windows[w.UserID] = make(map[string]*model.ReleaseWindow)
		}
		c := *w
		r.windows[w.UserID][w.ID] = &c
	}
}

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[types.UserID]time.Time
}

func newSessionRepository() *sessionRepository {
	return &sessionRepository{sessions: make(map[types.UserID]time.Time)}
}

func (r *sessionRepository) LastSessionAt(ctx context.Context, userID types.UserID) (*time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	at, ok := r.sessions[userID]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

func (r *sessionRepository) put(userID types.UserID, startedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.sessions[userID]; ok && prev.After(startedAt) {
		return
	}
	r.sessions[userID] = startedAt
}

// PutEvents stores or replaces events
func (m *Memory) PutEvents(ctx context.Context, events []*model.Event) error {
	m.event.put(events)
	return nil
}

// PutWorkItems stores or replaces work items
func (m *Memory) PutWorkItems(ctx context.Context, items []*model.WorkItem) error {
	m.workItem.put(items)
	return nil
}

// PutGoals stores or replaces goal trackers
func (m *Memory) PutGoals(ctx context.Context, goals []*model.GoalTracker) error {
	m.goal.put(goals)
	return nil
}

// PutReleaseWindows stores or replaces release windows
func (m *Memory) PutReleaseWindows(ctx context.Context, windows []*model.ReleaseWindow) error {
	m.releaseWindow.put(windows)
	return nil
}

// PutSession records a session start. Older timestamps than the stored one are ignored.
func (m *Memory) PutSession(ctx context.Context, userID types.UserID, startedAt time.Time) error {
	m.session.put(userID, startedAt)
	return nil
}
