package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"spendtrack/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// Helper to add an expense without repeating every argument.
func addTestExpense(t *testing.T, store *SQLiteStorage, userID string, amount float64, category model.CategoryID, ts time.Time) *model.SpendEntry {
	t.Helper()
	entry, err := store.AddExpense(context.Background(), userID, amount, category, ts, "", "")
	if err != nil {
		t.Fatalf("Failed to add expense: %v", err)
	}
	return entry
}
