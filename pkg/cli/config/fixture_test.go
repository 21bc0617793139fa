package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/gigbook/herald/pkg/cli/config"
	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
	"github.com/gigbook/herald/pkg/repository/memory"
)

var fixtureNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestParseFixtureTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "absolute", value: "2026-06-01T20:00:00Z", want: time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)},
		{name: "future offset", value: "+120h", want: fixtureNow.Add(120 * time.Hour)},
		{name: "past offset", value: "-48h", want: fixtureNow.Add(-48 * time.Hour)},
		{name: "bad offset", value: "+soon", wantErr: true},
		{name: "bad absolute", value: "next friday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.ParseFixtureTime(tt.value, fixtureNow)
			if tt.wantErr {
				gt.Error(t, err).Is(config.ErrInvalidTime)
				return
			}
			gt.NoError(t, err).Required()
			gt.Bool(t, got.Equal(tt.want)).True()
		})
	}
}

func TestFixture_Seed(t *testing.T) {
	path := writeFile(t, "fixture.toml", `
last_session_at = "-1h"

[[event]]
id = "evt-1"
title = "Riverside Gig"
venue = "Riverside Hall"
starts_at = "+120h"

[[work_item]]
id = "task-1"
title = "Sign contract"
category = "legal"
event_id = "evt-1"

[[work_item]]
id = "task-2"
title = "Book van"
status = "done"
category = "logistics"
completed_at = "-2h"

[[goal]]
id = "goal-1"
title = "Sell 200 tickets"
current = 120
target = 200
due_at = "+240h"

[[release_window]]
id = "rw-1"
title = "Single release"
opens_at = "+48h"
closes_at = "+168h"
`)
	fixture, err := config.LoadFixture(path)
	gt.NoError(t, err).Required()

	ctx := context.Background()
	repo := memory.New()
	gt.NoError(t, fixture.Seed(ctx, repo, "user-1", fixtureNow)).Required()

	last, err := repo.Session().LastSessionAt(ctx, "user-1")
	gt.NoError(t, err).Required()
	gt.Value(t, last).NotNil().Required()
	gt.Bool(t, last.Equal(fixtureNow.Add(-time.Hour))).True()

	events, err := repo.Event().ListEvents(ctx, "user-1", fixtureNow, fixtureNow.Add(30*24*time.Hour))
	gt.NoError(t, err).Required()
	gt.Array(t, events).Length(1).Required()
	gt.Value(t, events[0].Status).Equal(types.EventStatusConfirmed)
	gt.Value(t, events[0].UserID).Equal(types.UserID("user-1"))

	items, err := repo.WorkItem().ListWorkItems(ctx, "user-1", model.WorkItemFilter{})
	gt.NoError(t, err).Required()
	gt.Array(t, items).Length(2).Required()
	gt.Value(t, items[0].Status).Equal(types.WorkItemStatusPending)
	gt.Value(t, items[0].Category).Equal(types.WorkItemCategoryLegal)
	gt.Value(t, items[1].CompletedAt).NotNil()

	goals, err := repo.Goal().ListGoals(ctx, "user-1")
	gt.NoError(t, err).Required()
	gt.Array(t, goals).Length(1).Required()
	gt.Value(t, goals[0].Status).Equal(types.GoalStatusActive)

	windows, err := repo.ReleaseWindow().ListReleaseWindows(ctx, "user-1", fixtureNow, fixtureNow.Add(30*24*time.Hour))
	gt.NoError(t, err).Required()
	gt.Array(t, windows).Length(1)
}

func TestFixture_SeedRejectsBadTime(t *testing.T) {
	fixture := &config.Fixture{
		Events: []config.FixtureEvent{{ID: "evt-1", Title: "Gig", StartsAt: "tomorrow"}},
	}
	err := fixture.Seed(context.Background(), memory.New(), "user-1", fixtureNow)
	gt.Error(t, err).Is(config.ErrInvalidTime)
}

func TestLoadFixture_Errors(t *testing.T) {
	_, err := config.LoadFixture(writeFile(t, "broken.toml", `[[event]`))
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}
