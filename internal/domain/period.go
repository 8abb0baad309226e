// internal/domain/period.go
package domain

import "time"

// DateRange is a half-open interval [From, To). A zero bound is unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}

func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func MonthRange(year int, month time.Month) DateRange {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{From: from, To: from.AddDate(0, 1, 0)}
}

func YearRange(year int) DateRange {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{From: from, To: from.AddDate(1, 0, 0)}
}

// SummaryPeriod is the window a dashboard summary covers.
type SummaryPeriod string

const (
	PeriodThisMonth   SummaryPeriod = "thisMonth"
	PeriodLastMonth   SummaryPeriod = "lastMonth"
	PeriodLast3Months SummaryPeriod = "last3Months"
	PeriodThisYear    SummaryPeriod = "thisYear"
	PeriodAllTime     SummaryPeriod = "allTime"
)

// Resolve turns the period into a date range relative to now.
// last3Months covers the current month and the two before it.
func (p SummaryPeriod) Resolve(now time.Time) (DateRange, bool) {
	start := MonthStart(now)
	switch p {
	case PeriodThisMonth:
		return DateRange{From: start, To: start.AddDate(0, 1, 0)}, true
	case PeriodLastMonth:
		return DateRange{From: start.AddDate(0, -1, 0), To: start}, true
	case PeriodLast3Months:
		return DateRange{From: start.AddDate(0, -2, 0), To: start.AddDate(0, 1, 0)}, true
	case PeriodThisYear:
		return YearRange(start.Year()), true
	case PeriodAllTime:
		return DateRange{}, true
	}
	return DateRange{}, false
}
