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

type notificationRow struct {
	UserID         string `db:"user_id"`
	ID             string `db:"id"`
	Category       string `db:"category"`
	RuleKey        string `db:"rule_key"`
	Urgency        string `db:"urgency"`
	Title          string `db:"title"`
	Message        string `db:"message"`
	ActionLabel    string `db:"action_label"`
	ActionRef      string `db:"action_ref"`
	SourceEntityID string `db:"source_entity_id"`
	CreatedAt      int64  `db:"created_at"`
	LastSeenAt     int64  `db:"last_seen_at"`
	Dismissed      int    `db:"dismissed"`
}

const notificationColumns = `user_id, id, category, rule_key, urgency, title, message,
	action_label, action_ref, source_entity_id, created_at, last_seen_at, dismissed`

func toNotificationRow(userID types.UserID, n *model.Notification) notificationRow {
	return notificationRow{
		UserID:         userID.String(),
		ID:             n.ID.String(),
		Category:       n.Category.String(),
		RuleKey:        n.RuleKey.String(),
		Urgency:        n.Urgency.String(),
		Title:          n.Title,
		Message:        n.Message,
		ActionLabel:    n.ActionLabel,
		ActionRef:      n.ActionRef,
		SourceEntityID: n.SourceEntityID,
		CreatedAt:      toNanos(n.CreatedAt),
		LastSeenAt:     toNanos(n.LastSeenAt),
		Dismissed:      boolToInt(n.Dismissed),
	}
}

func (row *notificationRow) toModel() *model.Notification {
	return &model.Notification{
		ID:             types.NotificationID(row.ID),
		UserID:         types.UserID(row.UserID),
		Category:       types.Category(row.Category),
		RuleKey:        types.RuleKey(row.RuleKey),
		Urgency:        types.Urgency(row.Urgency),
		Title:          row.Title,
		Message:        row.Message,
		ActionLabel:    row.ActionLabel,
		ActionRef:      row.ActionRef,
		SourceEntityID: row.SourceEntityID,
		CreatedAt:      fromNanos(row.CreatedAt),
		LastSeenAt:     fromNanos(row.LastSeenAt),
		Dismissed:      row.Dismissed != 0,
	}
}

type notificationRepository struct {
	db *sqlx.DB
}

func (r *notificationRepository) selectMany(ctx context.Context, userID types.UserID, query string, args ...any) ([]*model.Notification, error) {
	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, goerr.Wrap(err, "failed to list notifications", goerr.V("user_id", userID))
	}

	result := make([]*model.Notification, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toModel())
	}
	return result, nil
}

func (r *notificationRepository) List(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	return r.selectMany(ctx, userID,
		"SELECT "+notificationColumns+" FROM notifications WHERE user_id = ?", userID.String())
}

func (r *notificationRepository) ListActive(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	return r.selectMany(ctx, userID,
		"SELECT "+notificationColumns+" FROM notifications WHERE user_id = ? AND dismissed = 0", userID.String())
}

func (r *notificationRepository) Get(ctx context.Context, userID types.UserID, id types.NotificationID) (*model.Notification, error) {
	var row notificationRow
	err := r.db.GetContext(ctx, &row,
		"SELECT "+notificationColumns+" FROM notifications WHERE user_id = ? AND id = ?",
		userID.String(), id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(ErrNotFound, "notification not found",
			goerr.V("user_id", userID), goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get notification",
			goerr.V("user_id", userID), goerr.V("id", id))
	}
	return row.toModel(), nil
}

// CreateMany relies on INSERT OR IGNORE so that rows already present keep
// their created_at and dismissed flag.
func (r *notificationRepository) CreateMany(ctx context.Context, userID types.UserID, notifications []*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT OR IGNORE INTO notifications (`+notificationColumns+`)
		VALUES (:user_id, :id, :category, :rule_key, :urgency, :title, :message,
			:action_label, :action_ref, :source_entity_id, :created_at, :last_seen_at, :dismissed)`)
	if err != nil {
		return goerr.Wrap(err, "failed to prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, n := range notifications {
		if _, err := stmt.ExecContext(ctx, toNotificationRow(userID, n)); err != nil {
			return goerr.Wrap(err, "failed to insert notification",
				goerr.V("user_id", userID), goerr.V("id", n.ID))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit notifications", goerr.V("user_id", userID))
	}
	return nil
}

func (r *notificationRepository) Touch(ctx context.Context, userID types.UserID, ids []types.NotificationID, seenAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	query, args, err := sqlx.In(
		"UPDATE notifications SET last_seen_at = ? WHERE user_id = ? AND id IN (?)",
		toNanos(seenAt), userID.String(), raw)
	if err != nil {
		return goerr.Wrap(err, "failed to build touch query")
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return goerr.Wrap(err, "failed to touch notifications", goerr.V("user_id", userID))
	}
	return nil
}

func (r *notificationRepository) Dismiss(ctx context.Context, userID types.UserID, id types.NotificationID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET dismissed = 1 WHERE user_id = ? AND id = ?",
		userID.String(), id.String())
	if err != nil {
		return goerr.Wrap(err, "failed to dismiss notification",
			goerr.V("user_id", userID), goerr.V("id", id))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return goerr.Wrap(ErrNotFound, "notification not found",
			goerr.V("user_id", userID), goerr.V("id", id))
	}
	return nil
}
