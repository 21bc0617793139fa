package sqlite

// migration is one schema step. Versions are sequential starting from 1.
type migration struct {
	version int
	sql     string
}

// Timestamps are stored as unix nanoseconds in UTC.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	user_id   TEXT NOT NULL,
	id        TEXT NOT NULL,
	title     TEXT NOT NULL DEFAULT '',
	venue     TEXT NOT NULL DEFAULT '',
	status    TEXT NOT NULL,
	starts_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, id)
);
CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(user_id, starts_at);

CREATE TABLE IF NOT EXISTS work_items (
	user_id      TEXT NOT NULL,
	id           TEXT NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT 'general',
	event_id     TEXT NOT NULL DEFAULT '',
	due_at       INTEGER,
	completed_at INTEGER,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS goals (
	user_id TEXT NOT NULL,
	id      TEXT NOT NULL,
	title   TEXT NOT NULL DEFAULT '',
	status  TEXT NOT NULL,
	current REAL NOT NULL DEFAULT 0,
	target  REAL NOT NULL DEFAULT 0,
	due_at  INTEGER,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS release_windows (
	user_id   TEXT NOT NULL,
	id        TEXT NOT NULL,
	title     TEXT NOT NULL DEFAULT '',
	status    TEXT NOT NULL,
	opens_at  INTEGER NOT NULL,
	closes_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS sessions (
	user_id         TEXT PRIMARY KEY,
	last_session_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	user_id          TEXT NOT NULL,
	id               TEXT NOT NULL,
	category         TEXT NOT NULL,
	rule_key         TEXT NOT NULL,
	urgency          TEXT NOT NULL,
	title            TEXT NOT NULL,
	message          TEXT NOT NULL,
	action_label     TEXT NOT NULL DEFAULT '',
	action_ref       TEXT NOT NULL DEFAULT '',
	source_entity_id TEXT NOT NULL DEFAULT '',
	created_at       INTEGER NOT NULL,
	last_seen_at     INTEGER NOT NULL,
	dismissed        INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, id)
);
CREATE INDEX IF NOT EXISTS idx_notifications_active ON notifications(user_id, dismissed);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
