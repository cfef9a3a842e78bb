package storage

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/common"
	"spendtrack/internal/model"
)

func TestAddExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and returns the stored record", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		ts := time.Date(2026, 8, 20, 13, 30, 0, 0, time.UTC)
		entry, err := store.AddExpense(ctx, "user-1", 249.50, model.CategoryFood, ts, "lunch at cafe", "")
		require.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, "user-1", entry.UserID)
		assert.Equal(t, 249.50, entry.Amount)
		assert.Equal(t, model.CategoryFood, entry.Category)
		assert.False(t, entry.Deleted)
		assert.False(t, entry.CreatedAt.IsZero())
		assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)

		got, err := store.GetExpenseByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, got.ID)
		assert.Equal(t, "lunch at cafe", got.Notes)
		assert.True(t, got.Timestamp.Equal(ts))
	})

	t.Run("allocates distinct ids", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		a := addTestExpense(t, store, "user-1", 10, model.CategoryFood, time.Now())
		b := addTestExpense(t, store, "user-1", 10, model.CategoryFood, time.Now())
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("rejects invalid amounts without persisting", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
			_, err := store.AddExpense(ctx, "user-1", amount, model.CategoryFood, time.Now(), "", "")
			assert.ErrorIs(t, err, common.ErrValidation)
		}

		count, err := store.CountExpenses(ctx, "user-1")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("rejects empty user", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.AddExpense(ctx, "", 10, model.CategoryFood, time.Now(), "", "")
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("stores custom category label", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		entry, err := store.AddExpense(ctx, "user-1", 99, model.CategoryCustom, time.Now(), "", "Pet supplies")
		require.NoError(t, err)

		got, err := store.GetExpenseByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pet supplies", got.CustomCategory)
	})
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("changes only the provided fields", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		entry := addTestExpense(t, store, "user-1", 100, model.CategoryFood, time.Now())

		newAmount := 150.0
		updated, err := store.UpdateExpense(ctx, entry.ID, model.ExpenseUpdate{Amount: &newAmount})
		require.NoError(t, err)
		assert.Equal(t, 150.0, updated.Amount)
		assert.Equal(t, model.CategoryFood, updated.Category)
		assert.Equal(t, entry.ID, updated.ID)
		assert.Equal(t, entry.UserID, updated.UserID)
		assert.True(t, updated.CreatedAt.Equal(entry.CreatedAt))
		assert.True(t, updated.UpdatedAt.After(entry.UpdatedAt) || updated.UpdatedAt.Equal(entry.UpdatedAt))
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		amount := 10.0
		_, err := store.UpdateExpense(ctx, "missing", model.ExpenseUpdate{Amount: &amount})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("rejects invalid amount", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		entry := addTestExpense(t, store, "user-1", 100, model.CategoryFood, time.Now())

		bad := -1.0
		_, err := store.UpdateExpense(ctx, entry.ID, model.ExpenseUpdate{Amount: &bad})
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("can undelete via the deleted field", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		entry := addTestExpense(t, store, "user-1", 100, model.CategoryFood, time.Now())
		require.NoError(t, store.SoftDeleteExpense(ctx, entry.ID))

		undelete := false
		updated, err := store.UpdateExpense(ctx, entry.ID, model.ExpenseUpdate{Deleted: &undelete})
		require.NoError(t, err)
		assert.False(t, updated.Deleted)

		entries, err := store.ListExpenses(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("soft delete hides from listings but keeps the row", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		entry := addTestExpense(t, store, "user-1", 100, model.CategoryFood, time.Now())
		require.NoError(t, store.SoftDeleteExpense(ctx, entry.ID))

		entries, err := store.ListExpenses(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, entries)

		got, err := store.GetExpenseByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.True(t, got.Deleted)
	})

	t.Run("soft delete of unknown id is not found", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		assert.ErrorIs(t, store.SoftDeleteExpense(ctx, "missing"), common.ErrNotFound)
	})

	t.Run("hard delete removes the row", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		entry := addTestExpense(t, store, "user-1", 100, model.CategoryFood, time.Now())
		require.NoError(t, store.HardDeleteExpense(ctx, entry.ID))

		_, err := store.GetExpenseByID(ctx, entry.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("hard delete is idempotent", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		assert.NoError(t, store.HardDeleteExpense(ctx, "missing"))
	})
}

func TestListExpenses(t *testing.T) {
	ctx := context.Background()

	t.Run("scopes to the user and excludes deleted", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		mine := addTestExpense(t, store, "user-1", 10, model.CategoryFood, time.Now())
		deleted := addTestExpense(t, store, "user-1", 20, model.CategoryBills, time.Now())
		addTestExpense(t, store, "user-2", 30, model.CategoryTravel, time.Now())
		require.NoError(t, store.SoftDeleteExpense(ctx, deleted.ID))

		entries, err := store.ListExpenses(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, mine.ID, entries[0].ID)
	})

	t.Run("by date range is inclusive and ordered ascending", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		day := func(d int) time.Time {
			return time.Date(2026, 8, d, 12, 0, 0, 0, time.UTC)
		}
		addTestExpense(t, store, "user-1", 3, model.CategoryFood, day(3))
		addTestExpense(t, store, "user-1", 1, model.CategoryFood, day(1))
		addTestExpense(t, store, "user-1", 2, model.CategoryFood, day(2))
		addTestExpense(t, store, "user-1", 9, model.CategoryFood, day(9))

		entries, err := store.ListExpensesByDateRange(ctx, "user-1", day(1), day(3))
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, 1.0, entries[0].Amount)
		assert.Equal(t, 2.0, entries[1].Amount)
		assert.Equal(t, 3.0, entries[2].Amount)
	})

	t.Run("by date range rejects inverted bounds", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.ListExpensesByDateRange(ctx, "user-1", time.Now(), time.Now().Add(-time.Hour))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("by category filters exactly", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		addTestExpense(t, store, "user-1", 10, model.CategoryFood, time.Now())
		addTestExpense(t, store, "user-1", 20, model.CategoryTravel, time.Now())

		entries, err := store.ListExpensesByCategory(ctx, "user-1", model.CategoryTravel)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 20.0, entries[0].Amount)
	})
}

func TestCountExpenses(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	addTestExpense(t, store, "user-1", 10, model.CategoryFood, time.Now())
	deleted := addTestExpense(t, store, "user-1", 20, model.CategoryFood, time.Now())
	require.NoError(t, store.SoftDeleteExpense(ctx, deleted.ID))

	count, err := store.CountExpenses(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestImportExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts a new entry preserving id and timestamps", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		entry := model.SpendEntry{
			ID:        "backup-entry-1",
			UserID:    "user-1",
			Amount:    42,
			Category:  model.CategoryBills,
			Timestamp: created,
			CreatedAt: created,
			UpdatedAt: created,
		}
		require.NoError(t, store.ImportExpense(ctx, entry))

		got, err := store.GetExpenseByID(ctx, "backup-entry-1")
		require.NoError(t, err)
		assert.Equal(t, 42.0, got.Amount)
		assert.True(t, got.CreatedAt.Equal(created))
	})

	t.Run("overwrites an existing entry with the backup copy", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		local := addTestExpense(t, store, "user-1", 10, model.CategoryFood, time.Now())

		restored := *local
		restored.Amount = 77
		restored.Category = model.CategoryHealth
		require.NoError(t, store.ImportExpense(ctx, restored))

		got, err := store.GetExpenseByID(ctx, local.ID)
		require.NoError(t, err)
		assert.Equal(t, 77.0, got.Amount)
		assert.Equal(t, model.CategoryHealth, got.Category)
	})
}
