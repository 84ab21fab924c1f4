package projection

import (
	"time"

	"github.com/rbatista/grana/internal/ledger"
)

// monthSteps maps the month-based recurrences to their step size in months.
var monthSteps = map[ledger.Recurrence]int{
	ledger.RecurrenceMonthly:      1,
	ledger.RecurrenceBimonthly:    2,
	ledger.RecurrenceQuarterly:    3,
	ledger.RecurrenceSemiannually: 6,
	ledger.RecurrenceAnnually:     12,
}

// daySteps maps the day-based recurrences to their step size in days.
var daySteps = map[ledger.Recurrence]int{
	ledger.RecurrenceDaily:    1,
	ledger.RecurrenceWeekly:   7,
	ledger.RecurrenceBiweekly: 14,
}

// occurrence returns the n-th occurrence (0-based) of a recurrence anchored at
// start. Month-based steps keep the anchor's day-of-month and clamp it to the
// target month's last day, so Jan 31 monthly yields Feb 28/29 and then Mar 31
// again; a month is never skipped. An unrecognized recurrence jumps far into
// the future so any bounded expansion terminates.
func occurrence(start time.Time, rec ledger.Recurrence, n int) time.Time {
	if n == 0 {
		return start
	}

	if days, ok := daySteps[rec]; ok {
		return start.AddDate(0, 0, n*days)
	}

	if months, ok := monthSteps[rec]; ok {
		return addMonthsClamped(start, n*months)
	}

	return start.AddDate(1000*n, 0, 0)
}

// Next returns the occurrence immediately after date for a recurrence anchored
// at date itself. Callers expanding a series should prefer newExpansion, which
// keeps the original anchor day across month-end clamps.
func Next(date time.Time, rec ledger.Recurrence) time.Time {
	return occurrence(date, rec, 1)
}

// addMonthsClamped advances by whole months preserving the day-of-month,
// clamping to the target month's length. time.AddDate is avoided here because
// it normalizes overflow into the next month (Jan 31 + 1mo = Mar 3).
func addMonthsClamped(t time.Time, months int) time.Time {
	// Normalize year/month via day 1, which can never overflow.
	anchor := Date(t.Year(), t.Month(), 1).AddDate(0, months, 0)

	day := t.Day()
	if last := daysInMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}

	return Date(anchor.Year(), anchor.Month(), day)
}

// expansion is a bounded lazy sequence of the occurrence dates of a fixed
// item. Window bounding, end-date bounding and the non-advancing-step guard
// are enforced here once, for every caller.
type expansion struct {
	start time.Time
	rec   ledger.Recurrence
	end   *time.Time // item end date, inclusive
	until time.Time  // caller window end, inclusive
	n     int
	prev  time.Time
	done  bool
}

func newExpansion(item ledger.FixedItem, until time.Time) *expansion {
	e := &expansion{
		start: DateOf(item.StartDate),
		rec:   item.Recurrence,
		until: DateOf(until),
	}

	if item.EndDate != nil {
		end := DateOf(*item.EndDate)
		e.end = &end
	}

	return e
}

// next yields the following occurrence, or false when the expansion is over.
func (e *expansion) next() (time.Time, bool) {
	if e.done {
		return time.Time{}, false
	}

	d := occurrence(e.start, e.rec, e.n)

	// A step that does not advance would loop forever; treat it as the end
	// of this item's series.
	if e.n > 0 && !d.After(e.prev) {
		e.done = true
		return time.Time{}, false
	}

	if d.After(e.until) || (e.end != nil && d.After(*e.end)) {
		e.done = true
		return time.Time{}, false
	}

	e.n++
	e.prev = d

	return d, true
}
