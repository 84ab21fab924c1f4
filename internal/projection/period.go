package projection

import (
	"fmt"
	"time"
)

// Period is an inclusive {start, end} date pair the dashboard aggregates by.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// PeriodView selects how a year is partitioned into periods.
type PeriodView string

const (
	ViewMonthly        PeriodView = "monthly"
	ViewFinancialCycle PeriodView = "financial_cycle"
)

// Policy is the date policy for period bucketing: calendar months, or a
// financial cycle running from a fixed day of the month to the day before it
// in the next month (e.g. the 25th to the 24th).
type Policy struct {
	View          PeriodView
	CycleStartDay int
}

// cycleDay returns the configured cycle start day clamped to 1..28 so a cycle
// boundary exists in every month.
func (p Policy) cycleDay() int {
	switch {
	case p.CycleStartDay < 1:
		return 1
	case p.CycleStartDay > 28:
		return 28
	default:
		return p.CycleStartDay
	}
}

// PeriodFor returns the period containing the given date.
func (p Policy) PeriodFor(date time.Time) Period {
	date = DateOf(date)

	if p.View != ViewFinancialCycle {
		return Period{Start: startOfMonth(date), End: endOfMonth(date)}
	}

	day := p.cycleDay()

	if date.Day() >= day {
		start := Date(date.Year(), date.Month(), day)
		return Period{Start: start, End: start.AddDate(0, 1, -1)}
	}

	end := Date(date.Year(), date.Month(), day-1)

	return Period{Start: end.AddDate(0, -1, 1), End: end}
}

// PeriodsForYear enumerates the year's periods in chronological order: twelve
// calendar months, or the financial cycles touching the year (a cycle is kept
// when either endpoint falls in the year; duplicate starts are collapsed).
func (p Policy) PeriodsForYear(year int) []Period {
	if p.View != ViewFinancialCycle {
		periods := make([]Period, 0, 12)
		for m := time.January; m <= time.December; m++ {
			first := Date(year, m, 1)
			periods = append(periods, Period{Start: first, End: endOfMonth(first)})
		}

		return periods
	}

	var periods []Period

	seen := make(map[time.Time]struct{})
	cursor := Date(year, time.January, p.cycleDay())

	for i := 0; i < 12; i++ {
		cycle := p.PeriodFor(cursor)

		if cycle.Start.Year() == year || cycle.End.Year() == year {
			if _, dup := seen[cycle.Start]; !dup {
				seen[cycle.Start] = struct{}{}
				periods = append(periods, cycle)
			}
		}

		cursor = cycle.Start.AddDate(0, 1, 0)
	}

	return periods
}

// Label formats a period tag for chart buckets. Display localization is the
// caller's concern; this is the neutral fallback.
func (p Policy) Label(period Period) string {
	if p.View != ViewFinancialCycle {
		return period.Start.Format("January 2006")
	}

	if period.Start.Month() == period.End.Month() {
		return fmt.Sprintf("%s %d", period.Start.Format("Jan"), period.Start.Year())
	}

	return fmt.Sprintf("%s/%s %d", period.Start.Format("Jan"), period.End.Format("Jan"), period.End.Year())
}
