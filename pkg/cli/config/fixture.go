package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/gigbook/herald/pkg/domain/interfaces"
	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

// Fixture is a set of collaborator records staged for a one-shot sweep.
// Times are RFC3339 or an offset from now such as "+120h" or "-48h".
type Fixture struct {
	LastSessionAt  string                 `toml:"last_session_at"`
	Events         []FixtureEvent         `toml:"event"`
	WorkItems      []FixtureWorkItem      `toml:"work_item"`
	Goals          []FixtureGoal          `toml:"goal"`
	ReleaseWindows []FixtureReleaseWindow `toml:"release_window"`
}

type FixtureEvent struct {
	ID       string `toml:"id"`
	Title    string `toml:"title"`
	Venue    string `toml:"venue"`
	Status   string `toml:"status"`
	StartsAt string `toml:"starts_at"`
}

type FixtureWorkItem struct {
	ID          string `toml:"id"`
	Title       string `toml:"title"`
	Status      string `toml:"status"`
	Category    string `toml:"category"`
	EventID     string `toml:"event_id"`
	DueAt       string `toml:"due_at"`
	CompletedAt string `toml:"completed_at"`
}

type FixtureGoal struct {
	ID      string  `toml:"id"`
	Title   string  `toml:"title"`
	Status  string  `toml:"status"`
	Current float64 `toml:"current"`
	Target  float64 `toml:"target"`
	DueAt   string  `toml:"due_at"`
}

type FixtureReleaseWindow struct {
	ID       string `toml:"id"`
	Title    string `toml:"title"`
	Status   string `toml:"status"`
	OpensAt  string `toml:"opens_at"`
	ClosesAt string `toml:"closes_at"`
}

// LoadFixture reads a fixture TOML file
func LoadFixture(path string) (*Fixture, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, err.Error(), goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read fixture file", goerr.V(ConfigPathKey, path))
	}

	var fixture Fixture
	if err := toml.Unmarshal(data, &fixture); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(ConfigPathKey, path))
	}
	return &fixture, nil
}

// Seed writes the fixture records for userID through seeder, resolving
// relative times against now
func (f *Fixture) Seed(ctx context.Context, seeder interfaces.Seeder, userID types.UserID, now time.Time) error {
	if f.LastSessionAt != "" {
		at, err := ParseFixtureTime(f.LastSessionAt, now)
		if err != nil {
			return goerr.Wrap(err, "invalid last_session_at")
		}
		if err := seeder.PutSession(ctx, userID, at); err != nil {
			return goerr.Wrap(err, "failed to seed session")
		}
	}

	events := make([]*model.Event, 0, len(f.Events))
	for _, e := range f.Events {
		startsAt, err := ParseFixtureTime(e.StartsAt, now)
		if err != nil {
			return goerr.Wrap(err, "invalid event starts_at", goerr.V("id", e.ID))
		}
		status := types.EventStatus(e.Status)
		if status == "" {
			status = types.EventStatusConfirmed
		}
		events = append(events, &model.Event{
			ID:       e.ID,
			UserID:   userID,
			Title:    e.Title,
			Venue:    e.Venue,
			Status:   status,
			StartsAt: startsAt,
		})
	}

	items := make([]*model.WorkItem, 0, len(f.WorkItems))
	for _, w := range f.WorkItems {
		dueAt, err := parseOptionalTime(w.DueAt, now)
		if err != nil {
			return goerr.Wrap(err, "invalid work item due_at", goerr.V("id", w.ID))
		}
		completedAt, err := parseOptionalTime(w.CompletedAt, now)
		if err != nil {
			return goerr.Wrap(err, "invalid work item completed_at", goerr.V("id", w.ID))
		}
		status := types.WorkItemStatus(w.Status)
		if status == "" {
			status = types.WorkItemStatusPending
		}
		category := types.WorkItemCategory(w.Category)
		if category == "" {
			category = types.WorkItemCategoryGeneral
		}
		items = append(items, &model.WorkItem{
			ID:          w.ID,
			UserID:      userID,
			Title:       w.Title,
			Status:      status,
			Category:    category,
			EventID:     w.EventID,
			DueAt:       dueAt,
			CompletedAt: completedAt,
		})
	}

	goals := make([]*model.GoalTracker, 0, len(f.Goals))
	for _, g := range f.Goals {
		dueAt, err := parseOptionalTime(g.DueAt, now)
		if err != nil {
			return goerr.Wrap(err, "invalid goal due_at", goerr.V("id", g.ID))
		}
		status := types.GoalStatus(g.Status)
		if status == "" {
			status = types.GoalStatusActive
		}
		goals = append(goals, &model.GoalTracker{
			ID:      g.ID,
			UserID:  userID,
			Title:   g.Title,
			Status:  status,
			Current: g.Current,
			Target:  g.Target,
			DueAt:   dueAt,
		})
	}

	windows := make([]*model.ReleaseWindow, 0, len(f.ReleaseWindows))
	for _, rw := range f.ReleaseWindows {
		opensAt, err := ParseFixtureTime(rw.OpensAt, now)
		if err != nil {
			return goerr.Wrap(err, "invalid release window opens_at", goerr.V("id", rw.ID))
		}
		closesAt, err := ParseFixtureTime(rw.ClosesAt, now)
		if err != nil {
			return goerr.Wrap(err, "invalid release window closes_at", goerr.V("id", rw.ID))
		}
		status := types.ReleaseWindowStatus(rw.Status)
		if status == "" {
			status = types.ReleaseWindowStatusPlanned
		}
		windows = append(windows, &model.ReleaseWindow{
			ID:       rw.ID,
			UserID:   userID,
			Title:    rw.Title,
			Status:   status,
			OpensAt:  opensAt,
			ClosesAt: closesAt,
		})
	}

	if err := seeder.PutEvents(ctx, events); err != nil {
		return goerr.Wrap(err, "failed to seed events")
	}
	if err := seeder.PutWorkItems(ctx, items); err != nil {
		return goerr.Wrap(err, "failed to seed work items")
	}
	if err := seeder.PutGoals(ctx, goals); err != nil {
		return goerr.Wrap(err, "failed to seed goals")
	}
	if err := seeder.PutReleaseWindows(ctx, windows); err != nil {
		return goerr.Wrap(err, "failed to seed release windows")
	}
	return nil
}

// ParseFixtureTime accepts RFC3339 or a signed Go duration relative to now
func ParseFixtureTime(v string, now time.Time) (time.Time, error) {
	if strings.HasPrefix(v, "+") || strings.HasPrefix(v, "-") {
		d, err := time.ParseDuration(v)
		if err != nil {
			return time.Time{}, goerr.Wrap(ErrInvalidTime, err.Error(), goerr.V(ValueKey, v))
		}
		return now.Add(d), nil
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, goerr.Wrap(ErrInvalidTime, err.Error(), goerr.V(ValueKey, v))
	}
	return t, nil
}

func parseOptionalTime(v string, now time.Time) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := ParseFixtureTime(v, now)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
