package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

type eventRow struct {
	UserID   string `db:"user_id"`
	ID       string `db:"id"`
	Title    string `db:"title"`
	Venue    string `db:"venue"`
	Status   string `db:"status"`
	StartsAt int64  `db:"starts_at"`
}

type eventRepository struct {
	db *sqlx.DB
}

func (r *eventRepository) ListEvents(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.Event, error) {
	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT user_id, id, title, venue, status, starts_at
		FROM events
		WHERE user_id = ? AND starts_at >= ? AND starts_at <= ?
		ORDER BY starts_at ASC`,
		userID.String(), toNanos(from), toNanos(to))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list events", goerr.V("user_id", userID))
	}

	events := make([]*model.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, &model.Event{
			ID:       row.ID,
			UserID:   types.UserID(row.UserID),
			Title:    row.Title,
			Venue:    row.Venue,
			Status:   types.EventStatus(row.Status),
			StartsAt: fromNanos(row.StartsAt),
		})
	}
	return events, nil
}

type workItemRow struct {
	UserID      string `db:"user_id"`
	ID          string `db:"id"`
	Title       string `db:"title"`
	Status      string `db:"status"`
	Category    string `db:"category"`
	EventID     string `db:"event_id"`
	DueAt       *int64 `db:"due_at"`
	CompletedAt *int64 `db:"completed_at"`
}

type workItemRepository struct {
	db *sqlx.DB
}

func (r *workItemRepository) ListWorkItems(ctx context.Context, userID types.UserID, filter model.WorkItemFilter) ([]*model.WorkItem, error) {
	query := `
		SELECT user_id, id, title, status, category, event_id, due_at, completed_at
		FROM work_items WHERE user_id = ?`
	args := []any{userID.String()}
	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, string(*filter.Status))
	}
	if filter.Category != nil {
		query += " AND category = ?"
		args = append(args, string(*filter.Category))
	}
	query += " ORDER BY id ASC"

	var rows []workItemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, goerr.Wrap(err, "failed to list work items", goerr.V("user_id", userID))
	}

	items := make([]*model.WorkItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, &model.WorkItem{
			ID:          row.ID,
			UserID:      types.UserID(row.UserID),
			Title:       row.Title,
			Status:      types.WorkItemStatus(row.Status),
			Category:    types.WorkItemCategory(row.Category),
			EventID:     row.EventID,
			DueAt:       fromNullableNanos(row.DueAt),
			CompletedAt: fromNullableNanos(row.CompletedAt),
		})
	}
	return items, nil
}

type goalRow struct {
	UserID  string  `db:"user_id"`
	ID      string  `db:"id"`
	Title   string  `db:"title"`
	Status  string  `db:"status"`
	Current float64 `db:"current"`
	Target  float64 `db:"target"`
	DueAt   *int64  `db:"due_at"`
}

type goalRepository struct {
	db *sqlx.DB
}

func (r *goalRepository) ListGoals(ctx context.Context, userID types.UserID) ([]*model.GoalTracker, error) {
	var rows []goalRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT user_id, id, title, status, current, target, due_at
		FROM goals WHERE user_id = ? ORDER BY id ASC`, userID.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list goals", goerr.V("user_id", userID))
	}

	goals := make([]*model.GoalTracker, 0, len(rows))
	for _, row := range rows {
		goals = append(goals, &model.GoalTracker{
			ID:      row.ID,
			UserID:  types.UserID(row.UserID),
			Title:   row.Title,
			Status:  types.GoalStatus(row.Status),
			Current: row.Current,
			Target:  row.Target,
			DueAt:   fromNullableNanos(row.DueAt),
		})
	}
	return goals, nil
}

type releaseWindowRow struct {
	UserID   string `db:"user_id"`
	ID       string `db:"id"`
	Title    string `db:"title"`
	Status   string `db:"status"`
	OpensAt  int64  `db:"opens_at"`
	ClosesAt int64  `db:"closes_at"`
}

type releaseWindowRepository struct {
	db *sqlx.DB
}

func (r *releaseWindowRepository) ListReleaseWindows(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.ReleaseWindow, error) {
	var rows []releaseWindowRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT user_id, id, title, status, opens_at, closes_at
		FROM release_windows
		WHERE user_id = ? AND closes_at >= ? AND opens_at <= ?
		ORDER BY opens_at ASC`,
		userID.String(), toNanos(from), toNanos(to))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list release windows", goerr.V("user_id", userID))
	}

	windows := make([]*model.ReleaseWindow, 0, len(rows))
	for _, row := range rows {
		windows = append(windows, &model.ReleaseWindow{
			ID:       row.ID,
			UserID:   types.UserID(row.UserID),
			Title:    row.Title,
			Status:   types.ReleaseWindowStatus(row.Status),
			OpensAt:  fromNanos(row.OpensAt),
			ClosesAt: fromNanos(row.ClosesAt),
		})
	}
	return windows, nil
}

type sessionRepository struct {
	db *sqlx.DB
}

func (r *sessionRepository) LastSessionAt(ctx context.Context, userID types.UserID) (*time.Time, error) {
	var at int64
	err := r.db.GetContext(ctx, &at,
		"SELECT last_session_at FROM sessions WHERE user_id = ?", userID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("user_id", userID))
	}
	t := fromNanos(at)
	return &t, nil
}
