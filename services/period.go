package services

import (
	"fmt"
	"time"

	"github.com/diyorbekkd/thDent/apperrors"
)

// Period names a reporting window relative to now.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodWeek      Period = "week"
	PeriodMonth     Period = "month"
	PeriodLastMonth Period = "last_month"
	PeriodYear      Period = "year"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodLastMonth, PeriodYear:
		return p, nil
	}
	return "", apperrors.Invalid("period", fmt.Sprintf("unknown period %q", s))
}

// PeriodInterval resolves p against now, in now's location. Windows run up
// to now, except last_month which covers the whole previous month. With
// endExclusive that month ends at the first instant of the current one.
func PeriodInterval(p Period, now time.Time, endExclusive bool) (Interval, error) {
	today := startOfDay(now)
	switch p {
	case PeriodToday:
		return Interval{Start: today, End: now}, nil
	case PeriodWeek:
		// weeks start on Monday
		offset := (int(now.Weekday()) + 6) % 7
		return Interval{Start: today.AddDate(0, 0, -offset), End: now}, nil
	case PeriodMonth:
		return Interval{Start: startOfMonth(now), End: now}, nil
	case PeriodLastMonth:
		thisMonth := startOfMonth(now)
		end := thisMonth
		if !endExclusive {
			end = thisMonth.Add(-time.Nanosecond)
		}
		return Interval{Start: thisMonth.AddDate(0, -1, 0), End: end}, nil
	case PeriodYear:
		return Interval{Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), End: now}, nil
	}
	return Interval{}, apperrors.Invalid("period", fmt.Sprintf("unknown period %q", p))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
