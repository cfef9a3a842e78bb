package analytics

import (
	"context"
	"sort"
	"time"

	"spendtrack/internal/model"
	"spendtrack/internal/service"
)

// Analytics computes read-only aggregates over the expense store. It
// holds no state of its own; every query re-reads the store.
type Analytics struct {
	store service.Storage
	now   func() time.Time
}

// New creates an Analytics instance backed by the given store.
func New(store service.Storage) *Analytics {
	return &Analytics{
		store: store,
		now:   time.Now,
	}
}

// TotalFor sums amounts over the rolling window for the filter.
func (a *Analytics) TotalFor(ctx context.Context, userID string, filter TimeFilter) (float64, error) {
	r, err := RangeFor(filter, a.now())
	if err != nil {
		return 0, err
	}
	return a.totalInRange(ctx, userID, r)
}

// PreviousWeekTotal sums amounts over the previous calendar week
// (Sunday start).
func (a *Analytics) PreviousWeekTotal(ctx context.Context, userID string) (float64, error) {
	return a.totalInRange(ctx, userID, PreviousWeekRange(a.now()))
}

// PreviousMonthTotal sums amounts over the previous calendar month.
func (a *Analytics) PreviousMonthTotal(ctx context.Context, userID string) (float64, error) {
	return a.totalInRange(ctx, userID, PreviousMonthRange(a.now()))
}

func (a *Analytics) totalInRange(ctx context.Context, userID string, r DateRange) (float64, error) {
	entries, err := a.store.ListExpensesByDateRange(ctx, userID, r.Start, r.End)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, e := range entries {
		total += e.Amount
	}
	return total, nil
}

// CategoryBreakdown returns one summary per category present in the
// window, in first-encountered order over the window's entries.
// Categories with no entries are omitted.
func (a *Analytics) CategoryBreakdown(ctx context.Context, userID string, filter TimeFilter) ([]model.CategorySummary, error) {
	r, err := RangeFor(filter, a.now())
	if err != nil {
		return nil, err
	}

	entries, err := a.store.ListExpensesByDateRange(ctx, userID, r.Start, r.End)
	if err != nil {
		return nil, err
	}

	// Insertion-ordered accumulation keeps the breakdown order stable and
	// makes the top-category tie-break reproducible.
	index := make(map[model.CategoryID]int)
	breakdown := make([]model.CategorySummary, 0)

	for _, e := range entries {
		i, ok := index[e.Category]
		if !ok {
			i = len(breakdown)
			index[e.Category] = i
			breakdown = append(breakdown, model.CategorySummary{Category: e.Category})
		}
		breakdown[i].Total += e.Amount
		breakdown[i].Count++
	}

	return breakdown, nil
}

// TopCategory returns the breakdown entry with the maximal total, or nil
// when the window is empty. Ties are broken by first-encountered order:
// the comparison is strictly-greater, so an equal later total never
// displaces an earlier one.
func (a *Analytics) TopCategory(ctx context.Context, userID string, filter TimeFilter) (*model.CategorySummary, error) {
	breakdown, err := a.CategoryBreakdown(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if len(breakdown) == 0 {
		return nil, nil
	}

	top := breakdown[0]
	for _, c := range breakdown[1:] {
		if c.Total > top.Total {
			top = c
		}
	}
	return &top, nil
}

// Trend sums amounts per calendar day within the window and returns one
// point per day that has at least one expense, sorted ascending by date.
func (a *Analytics) Trend(ctx context.Context, userID string, filter TimeFilter) ([]model.TrendPoint, error) {
	r, err := RangeFor(filter, a.now())
	if err != nil {
		return nil, err
	}

	entries, err := a.store.ListExpensesByDateRange(ctx, userID, r.Start, r.End)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]float64)
	for _, e := range entries {
		grouped[e.Timestamp.Format("2006-01-02")] += e.Amount
	}

	dates := make([]string, 0, len(grouped))
	for date := range grouped {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]model.TrendPoint, 0, len(dates))
	for _, date := range dates {
		points = append(points, model.TrendPoint{Date: date, Amount: grouped[date]})
	}
	return points, nil
}
