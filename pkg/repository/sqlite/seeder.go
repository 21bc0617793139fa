package sqlite

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

func (s *SQLite) PutEvents(ctx context.Context, events []*model.Event) error {
	rows := make([]eventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, eventRow{
			UserID:   e.UserID.String(),
			ID:       e.ID,
			Title:    e.Title,
			Venue:    e.Venue,
			Status:   string(e.Status),
			StartsAt: toNanos(e.StartsAt),
		})
	}
	return putRows(ctx, s, `
		INSERT OR REPLACE INTO events (user_id, id, title, venue, status, starts_at)
		VALUES (:user_id, :id, :title, :venue, :status, :starts_at)`, rows)
}

func (s *SQLite) PutWorkItems(ctx context.Context, items []*model.WorkItem) error {
	rows := make([]workItemRow, 0, len(items))
	for _, w := range items {
		rows = append(rows, workItemRow{
			UserID:      w.UserID.String(),
			ID:          w.ID,
			Title:       w.Title,
			Status:      string(w.Status),
			Category:    string(w.Category),
			EventID:     w.EventID,
			DueAt:       toNullableNanos(w.DueAt),
			CompletedAt: toNullableNanos(w.CompletedAt),
		})
	}
	return putRows(ctx, s, `
		INSERT OR REPLACE INTO work_items (user_id, id, title, status, category, event_id, due_at, completed_at)
		VALUES (:user_id, :id, :title, :status, :category, :event_id, :due_at, :completed_at)`, rows)
}

func (s *SQLite) PutGoals(ctx context.Context, goals []*model.GoalTracker) error {
	rows := make([]goalRow, 0, len(goals))
	for _, g := range goals {
		rows = append(rows, goalRow{
			UserID:  g.UserID.String(),
			ID:      g.ID,
			Title:   g.Title,
			Status:  string(g.Status),
			Current: g.Current,
			Target:  g.Target,
			DueAt:   toNullableNanos(g.DueAt),
		})
	}
	return putRows(ctx, s, `
		INSERT OR REPLACE INTO goals (user_id, id, title, status, current, target, due_at)
		VALUES (:user_id, :id, :title, :status, :current, :target, :due_at)`, rows)
}

func (s *SQLite) PutReleaseWindows(ctx context.Context, windows []*model.ReleaseWindow) error {
	rows := make([]releaseWindowRow, 0, len(windows))
	for _, w := range windows {
		rows = append(rows, releaseWindowRow{
			UserID:   w.UserID.String(),
			ID:       w.ID,
			Title:    w.Title,
			Status:   string(w.Status),
			OpensAt:  toNanos(w.OpensAt),
			ClosesAt: toNanos(w.ClosesAt),
		})
	}
	return putRows(ctx, s, `
		INSERT OR REPLACE INTO release_windows (user_id, id, title, status, opens_at, closes_at)
		VALUES (:user_id, :id, :title, :status, :opens_at, :closes_at)`, rows)
}

// PutSession keeps the later of the stored and given session start
func (s *SQLite) PutSession(ctx context.Context, userID types.UserID, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, last_session_at) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET last_session_at = MAX(last_session_at, excluded.last_session_at)`,
		userID.String(), toNanos(startedAt))
	if err != nil {
		return goerr.Wrap(err, "failed to put session", goerr.V("user_id", userID))
	}
	return nil
}

// putRows batch-inserts rows in a single transaction
func putRows[T any](ctx context.Context, s *SQLite, query string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.NamedExecContext(ctx, query, rows); err != nil {
		return goerr.Wrap(err, "failed to write rows", goerr.V("count", len(rows)))
	}
	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit transaction")
	}
	return nil
}
