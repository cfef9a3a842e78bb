// Package analytics implements the aggregation queries over the expense
// store: windowed totals, category breakdowns and daily trend series.
package analytics

import (
	"fmt"
	"time"
)

// TimeFilter selects one of the rolling summary windows.
type TimeFilter string

// Supported rolling windows.
const (
	FilterToday TimeFilter = "today"
	FilterWeek  TimeFilter = "week"
	FilterMonth TimeFilter = "month"
	FilterYear  TimeFilter = "year"
)

// ParseFilter validates a filter string from the CLI/config boundary.
func ParseFilter(s string) (TimeFilter, error) {
	switch TimeFilter(s) {
	case FilterToday, FilterWeek, FilterMonth, FilterYear:
		return TimeFilter(s), nil
	default:
		return "", fmt.Errorf("unknown time filter: %q", s)
	}
}

// DateRange is an inclusive [Start, End] window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RangeFor computes the rolling window for a filter relative to now.
// These are rolling windows (e.g. week = the last 7 days), deliberately
// distinct from the calendar-aligned windows used for previous-period
// comparisons below.
func RangeFor(filter TimeFilter, now time.Time) (DateRange, error) {
	end := endOfDay(now)

	var start time.Time
	switch filter {
	case FilterToday:
		start = midnight(now)
	case FilterWeek:
		start = midnight(now.AddDate(0, 0, -7))
	case FilterMonth:
		start = midnight(now.AddDate(0, -1, 0))
	case FilterYear:
		start = midnight(now.AddDate(-1, 0, 0))
	default:
		return DateRange{}, fmt.Errorf("unknown time filter: %q", filter)
	}

	return DateRange{Start: start, End: end}, nil
}

// PreviousWeekRange is the calendar week (Sunday start) immediately before
// the current one: [this-week-start − 7 days, this-week-start − 1ms].
func PreviousWeekRange(now time.Time) DateRange {
	startOfThisWeek := midnight(now.AddDate(0, 0, -int(now.Weekday())))
	return DateRange{
		Start: startOfThisWeek.AddDate(0, 0, -7),
		End:   startOfThisWeek.Add(-time.Millisecond),
	}
}

// PreviousMonthRange is the calendar month immediately before the current
// one: [first of previous month, first of this month − 1ms].
func PreviousMonthRange(now time.Time) DateRange {
	startOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return DateRange{
		Start: startOfThisMonth.AddDate(0, -1, 0),
		End:   startOfThisMonth.Add(-time.Millisecond),
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
