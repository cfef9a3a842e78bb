package analytics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/model"
	"spendtrack/internal/storage"
)

// fixedNow pins the analytics clock so rolling windows are deterministic.
var fixedNow = time.Date(2026, 8, 19, 15, 0, 0, 0, time.UTC)

func createTestAnalytics(t *testing.T) (*Analytics, *storage.SQLiteStorage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	a := New(store)
	a.now = func() time.Time { return fixedNow }

	return a, store, func() { _ = store.Close() }
}

func addExpenseAt(t *testing.T, store *storage.SQLiteStorage, userID string, amount float64, category model.CategoryID, ts time.Time) {
	t.Helper()
	_, err := store.AddExpense(context.Background(), userID, amount, category, ts, "", "")
	require.NoError(t, err)
}

func TestTotalFor(t *testing.T) {
	ctx := context.Background()
	a, store, cleanup := createTestAnalytics(t)
	defer cleanup()

	addExpenseAt(t, store, "user-1", 100, model.CategoryFood, fixedNow.Add(-2*time.Hour))         // today
	addExpenseAt(t, store, "user-1", 50, model.CategoryTravel, fixedNow.AddDate(0, 0, -3))        // this week
	addExpenseAt(t, store, "user-1", 25, model.CategoryBills, fixedNow.AddDate(0, 0, -20))        // this month (rolling)
	addExpenseAt(t, store, "user-1", 10, model.CategoryHealth, fixedNow.AddDate(0, -6, 0))        // this year
	addExpenseAt(t, store, "user-1", 999, model.CategoryShopping, fixedNow.AddDate(-2, 0, 0))     // outside every window
	addExpenseAt(t, store, "user-2", 777, model.CategoryFood, fixedNow.Add(-time.Hour))           // other user

	tests := []struct {
		filter TimeFilter
		want   float64
	}{
		{FilterToday, 100},
		{FilterWeek, 150},
		{FilterMonth, 175},
		{FilterYear, 185},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			total, err := a.TotalFor(ctx, "user-1", tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
		})
	}
}

func TestTotalForExcludesDeleted(t *testing.T) {
	ctx := context.Background()
	a, store, cleanup := createTestAnalytics(t)
	defer cleanup()

	entry, err := store.AddExpense(ctx, "user-1", 100, model.CategoryFood, fixedNow.Add(-time.Hour), "", "")
	require.NoError(t, err)
	require.NoError(t, store.SoftDeleteExpense(ctx, entry.ID))

	total, err := a.TotalFor(ctx, "user-1", FilterToday)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestPreviousPeriodTotals(t *testing.T) {
	ctx := context.Background()
	a, store, cleanup := createTestAnalytics(t)
	defer cleanup()

	// fixedNow is Wednesday 2026-08-19; previous calendar week is Aug 9-15,
	// previous calendar month is July.
	addExpenseAt(t, store, "user-1", 40, model.CategoryFood, time.Date(2026, 8, 11, 12, 0, 0, 0, time.UTC))
	addExpenseAt(t, store, "user-1", 60, model.CategoryBills, time.Date(2026, 8, 15, 23, 0, 0, 0, time.UTC))
	addExpenseAt(t, store, "user-1", 5, model.CategoryFood, time.Date(2026, 8, 16, 1, 0, 0, 0, time.UTC)) // this week
	addExpenseAt(t, store, "user-1", 200, model.CategoryTravel, time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC))
	addExpenseAt(t, store, "user-1", 300, model.CategoryTravel, time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)) // June, not July

	prevWeek, err := a.PreviousWeekTotal(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, prevWeek)

	prevMonth, err := a.PreviousMonthTotal(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 200.0, prevMonth)
}

func TestCategoryBreakdown(t *testing.T) {
	ctx := context.Background()
	a, store, cleanup := createTestAnalytics(t)
	defer cleanup()

	day0 := fixedNow.Add(-2 * time.Hour)
	day1 := fixedNow.AddDate(0, 0, -1)

	addExpenseAt(t, store, "user-1", 100, model.CategoryFood, day0)
	addExpenseAt(t, store, "user-1", 50, model.CategoryTravel, day0.Add(time.Minute))
	addExpenseAt(t, store, "user-1", 25, model.CategoryFood, day1)

	breakdown, err := a.CategoryBreakdown(ctx, "user-1", FilterWeek)
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	// Entries come back oldest first, so the day1 food entry is seen
	// before the day0 travel entry and food takes slot 0.
	assert.Equal(t, model.CategoryFood, breakdown[0].Category)
	assert.Equal(t, 125.0, breakdown[0].Total)
	assert.Equal(t, 2, breakdown[0].Count)
	assert.Equal(t, model.CategoryTravel, breakdown[1].Category)
	assert.Equal(t, 50.0, breakdown[1].Total)
	assert.Equal(t, 1, breakdown[1].Count)
}

func TestTopCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("highest total wins", func(t *testing.T) {
		a, store, cleanup := createTestAnalytics(t)
		defer cleanup()

		addExpenseAt(t, store, "user-1", 100, model.CategoryFood, fixedNow.Add(-time.Hour))
		addExpenseAt(t, store, "user-1", 150, model.CategoryTravel, fixedNow.Add(-2*time.Hour))

		top, err := a.TopCategory(ctx, "user-1", FilterWeek)
		require.NoError(t, err)
		require.NotNil(t, top)
		assert.Equal(t, model.CategoryTravel, top.Category)
		assert.Equal(t, 150.0, top.Total)
	})

	t.Run("ties keep the first encountered category", func(t *testing.T) {
		a, store, cleanup := createTestAnalytics(t)
		defer cleanup()

		addExpenseAt(t, store, "user-1", 100, model.CategoryFood, fixedNow.Add(-3*time.Hour))
		addExpenseAt(t, store, "user-1", 100, model.CategoryTravel, fixedNow.Add(-2*time.Hour))

		top, err := a.TopCategory(ctx, "user-1", FilterWeek)
		require.NoError(t, err)
		require.NotNil(t, top)
		assert.Equal(t, model.CategoryFood, top.Category)
	})

	t.Run("empty window yields nil", func(t *testing.T) {
		a, _, cleanup := createTestAnalytics(t)
		defer cleanup()

		top, err := a.TopCategory(ctx, "user-1", FilterWeek)
		require.NoError(t, err)
		assert.Nil(t, top)
	})
}

func TestTrend(t *testing.T) {
	ctx := context.Background()
	a, store, cleanup := createTestAnalytics(t)
	defer cleanup()

	day0 := time.Date(2026, 8, 18, 10, 0, 0, 0, time.UTC)
	day1 := time.Date(2026, 8, 19, 9, 0, 0, 0, time.UTC)

	addExpenseAt(t, store, "user-1", 100, model.CategoryFood, day0)
	addExpenseAt(t, store, "user-1", 50, model.CategoryTravel, day0.Add(3*time.Hour))
	addExpenseAt(t, store, "user-1", 25, model.CategoryFood, day1)

	points, err := a.Trend(ctx, "user-1", FilterWeek)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "2026-08-18", points[0].Date)
	assert.Equal(t, 150.0, points[0].Amount)
	assert.Equal(t, "2026-08-19", points[1].Date)
	assert.Equal(t, 25.0, points[1].Amount)
}

func TestTrendEmptyWindow(t *testing.T) {
	ctx := context.Background()
	a, _, cleanup := createTestAnalytics(t)
	defer cleanup()

	points, err := a.Trend(ctx, "user-1", FilterMonth)
	require.NoError(t, err)
	assert.Empty(t, points)
}
