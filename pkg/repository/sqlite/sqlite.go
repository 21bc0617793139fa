package sqlite

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/gigbook/herald/pkg/domain/interfaces"
)

// ErrNotFound is returned (wrapped) when a row does not exist
var ErrNotFound = interfaces.ErrNotFound

// SQLite stores snapshots and notifications in a local SQLite database
type SQLite struct {
	db *sqlx.DB
}

var (
	_ interfaces.Repository = &SQLite{}
	_ interfaces.Seeder     = &SQLite{}
)

// New opens (or creates) the database at path, enables WAL mode and applies
// pending migrations. ":memory:" gives a private in-process database.
func New(path string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite db", goerr.V("path", path))
	}

	// every pooled connection to ":memory:" would see its own empty database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to set busy timeout")
	}

	s := &SQLite{db: db}
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) runMigrations() error {
	current := 0

	var tableCount int
	if err := s.db.Get(&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'"); err != nil {
		return goerr.Wrap(err, "failed to check schema_version table")
	}
	if tableCount > 0 {
		if err := s.db.Get(&current, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return goerr.Wrap(err, "failed to read schema version")
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return goerr.Wrap(err, "failed to apply migration", goerr.V("version", m.version))
		}
	}
	return nil
}

func (s *SQLite) Event() interfaces.EventReader {
	return &eventRepository{db: s.db}
}

func (s *SQLite) WorkItem() interfaces.WorkItemReader {
	return &workItemRepository{db: s.db}
}

func (s *SQLite) Goal() interfaces.GoalReader {
	return &goalRepository{db: s.db}
}

func (s *SQLite) ReleaseWindow() interfaces.ReleaseWindowReader {
	return &releaseWindowRepository{db: s.db}
}

func (s *SQLite) Session() interfaces.SessionReader {
	return &sessionRepository{db: s.db}
}

func (s *SQLite) Notification() interfaces.NotificationRepository {
	return &notificationRepository{db: s.db}
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func toNullableNanos(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	n := toNanos(*t)
	return &n
}

func fromNullableNanos(n *int64) *time.Time {
	if n == nil {
		return nil
	}
	t := fromNanos(*n)
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
