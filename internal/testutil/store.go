// Package testutil provides fixtures and isolated stores for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/prdash/internal/storage"
)

// SetupTestStore creates a migrated in-memory approval store that is
// closed when the test ends.
func SetupTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test store: %v", err)
		}
	})

	return store
}
