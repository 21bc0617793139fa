package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

func TestSnapshotReaders(t *testing.T) {
	forEachBackend(t, runSnapshotReaderTest)
}

func runSnapshotReaderTest(t *testing.T, newRepo newBackend) {
	t.Helper()

	const user types.UserID = "user-1"
	const other types.UserID = "user-2"

	t.Run("ListEvents filters by range and user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.PutEvents(ctx, []*model.Event{
			{ID: "evt-past", UserID: user, Title: "Old Show", Status: types.EventStatusCompleted, StartsAt: baseTime.Add(-48 * time.Hour)},
			{ID: "evt-2", UserID: user, Title: "Later Gig", Status: types.EventStatusConfirmed, StartsAt: baseTime.Add(72 * time.Hour)},
			{ID: "evt-1", UserID: user, Title: "Riverside Gig", Venue: "Riverside", Status: types.EventStatusTentative, StartsAt: baseTime.Add(24 * time.Hour)},
			{ID: "evt-x", UserID: other, Title: "Someone Else", Status: types.EventStatusConfirmed, StartsAt: baseTime.Add(24 * time.Hour)},
		})).Required()

		events, err := repo.Event().ListEvents(ctx, user, baseTime, baseTime.Add(7*24*time.Hour))
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(2).Required()
		gt.Value(t, events[0].ID).Equal("evt-1")
		gt.Value(t, events[0].Venue).Equal("Riverside")
		gt.Value(t, events[0].Status).Equal(types.EventStatusTentative)
		gt.Bool(t, events[0].StartsAt.Equal(baseTime.Add(24*time.Hour))).True()
		gt.Value(t, events[1].ID).Equal("evt-2")
	})

	t.Run("ListEvents returns empty slice for unknown user", func(t *testing.T) {
		repo := newRepo(t)
		events, err := repo.Event().ListEvents(context.Background(), "nobody", baseTime, baseTime.Add(time.Hour))
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(0)
	})

	t.Run("ListWorkItems applies status and category filters", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		due := baseTime.Add(-time.Hour)
		done := baseTime.Add(-2 * time.Hour)

		gt.NoError(t, repo.PutWorkItems(ctx, []*model.WorkItem{
			{ID: "task-1", UserID: user, Title: "Sign contract", Status: types.WorkItemStatusPending, Category: types.WorkItemCategoryLegal, EventID: "evt-1", DueAt: &due},
			{ID: "task-2", UserID: user, Title: "Invoice", Status: types.WorkItemStatusDone, Category: types.WorkItemCategoryFinancial, CompletedAt: &done},
			{ID: "task-3", UserID: user, Title: "Book van", Status: types.WorkItemStatusPending, Category: types.WorkItemCategoryLogistics},
		})).Required()

		all, err := repo.WorkItem().ListWorkItems(ctx, user, model.WorkItemFilter{})
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(3).Required()
		gt.Value(t, all[0].ID).Equal("task-1")
		gt.Value(t, all[0].EventID).Equal("evt-1")
		gt.Value(t, all[0].DueAt).NotNil()
		gt.Bool(t, all[0].DueAt.Equal(due)).True()
		gt.Value(t, all[0].CompletedAt).Nil()

		pending := types.WorkItemStatusPending
		open, err := repo.WorkItem().ListWorkItems(ctx, user, model.WorkItemFilter{Status: &pending})
		gt.NoError(t, err).Required()
		gt.Array(t, open).Length(2)

		legal := types.WorkItemCategoryLegal
		legalItems, err := repo.WorkItem().ListWorkItems(ctx, user, model.WorkItemFilter{Status: &pending, Category: &legal})
		gt.NoError(t, err).Required()
		gt.Array(t, legalItems).Length(1).Required()
		gt.Value(t, legalItems[0].ID).Equal("task-1")
	})

	t.Run("ListGoals returns goals of the user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.PutGoals(ctx, []*model.GoalTracker{
			{ID: "goal-1", UserID: user, Title: "Monthly listeners", Status: types.GoalStatusActive, Current: 420, Target: 1000},
			{ID: "goal-2", UserID: other, Title: "Merch", Status: types.GoalStatusActive, Current: 1, Target: 2},
		})).Required()

		goals, err := repo.Goal().ListGoals(ctx, user)
		gt.NoError(t, err).Required()
		gt.Array(t, goals).Length(1).Required()
		gt.Value(t, goals[0].Current).Equal(420.0)
		gt.Value(t, goals[0].Target).Equal(1000.0)
		gt.Value(t, goals[0].DueAt).Nil()
	})

	t.Run("ListReleaseWindows returns overlapping windows", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		day := 24 * time.Hour

		gt.NoError(t, repo.PutReleaseWindows(ctx, []*model.ReleaseWindow{
			{ID: "rw-closed", UserID: user, Title: "Spring EP", Status: types.ReleaseWindowStatusClosed, OpensAt: baseTime.Add(-30 * day), ClosesAt: baseTime.Add(-20 * day)},
			{ID: "rw-open", UserID: user, Title: "Summer single", Status: types.ReleaseWindowStatusOpen, OpensAt: baseTime.Add(-2 * day), ClosesAt: baseTime.Add(2 * day)},
			{ID: "rw-future", UserID: user, Title: "Autumn LP", Status: types.ReleaseWindowStatusPlanned, OpensAt: baseTime.Add(5 * day), ClosesAt: baseTime.Add(9 * day)},
		})).Required()

		windows, err := repo.ReleaseWindow().ListReleaseWindows(ctx, user, baseTime, baseTime.Add(7*day))
		gt.NoError(t, err).Required()
		gt.Array(t, windows).Length(2).Required()
		gt.Value(t, windows[0].ID).Equal("rw-open")
		gt.Value(t, windows[1].ID).Equal("rw-future")
	})

	t.Run("LastSessionAt keeps the latest session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		none, err := repo.Session().LastSessionAt(ctx, user)
		gt.NoError(t, err).Required()
		gt.Value(t, none).Nil()

		gt.NoError(t, repo.PutSession(ctx, user, baseTime)).Required()
		gt.NoError(t, repo.PutSession(ctx, user, baseTime.Add(-time.Hour))).Required()

		last, err := repo.Session().LastSessionAt(ctx, user)
		gt.NoError(t, err).Required()
		gt.Value(t, last).NotNil()
		gt.Bool(t, last.Equal(baseTime)).True()

		gt.NoError(t, repo.PutSession(ctx, user, baseTime.Add(time.Hour))).Required()
		last, err = repo.Session().LastSessionAt(ctx, user)
		gt.NoError(t, err).Required()
		gt.Bool(t, last.Equal(baseTime.Add(time.Hour))).True()
	})
}
