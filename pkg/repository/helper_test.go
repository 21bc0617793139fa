package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/gigbook/herald/pkg/domain/interfaces"
	"github.com/gigbook/herald/pkg/repository/firestore"
	"github.com/gigbook/herald/pkg/repository/memory"
	"github.com/gigbook/herald/pkg/repository/sqlite"
)

// backend is a repository that can also be seeded
type backend interface {
	interfaces.Repository
	interfaces.Seeder
}

type newBackend func(t *testing.T) backend

func newMemoryBackend(t *testing.T) backend {
	return memory.New()
}

func newSQLiteBackend(t *testing.T) backend {
	t.Helper()

	repo, err := sqlite.New(":memory:")
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close sqlite repository: %v", err)
		}
	})
	return repo
}

func newFirestoreBackend(t *testing.T) backend {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func forEachBackend(t *testing.T, run func(t *testing.T, newRepo newBackend)) {
	t.Run("memory", func(t *testing.T) { run(t, newMemoryBackend) })
	t.Run("sqlite", func(t *testing.T) { run(t, newSQLiteBackend) })
	t.Run("firestore", func(t *testing.T) { run(t, newFirestoreBackend) })
}

// baseTime has no sub-microsecond part so that every backend round-trips it exactly
var baseTime = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
