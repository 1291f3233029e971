package analytics

import "time"

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

func monthKey(t time.Time) string { return t.Format(monthLayout) }

// TargetPeriod is the YYYY-MM key of the month a prediction made at now covers.
func TargetPeriod(now time.Time) string { return monthKey(startOfMonth(now).AddDate(0, 1, 0)) }

func dayKey(t time.Time) string { return t.Format(dayLayout) }

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func daysInMonth(t time.Time) int {
	return startOfMonth(t).AddDate(0, 1, -1).Day()
}

// completedMonths drops the month containing now from the tail of months,
// unless now already falls on that month's last day.
func completedMonths(months []MonthlyAggregate, now time.Time) []MonthlyAggregate {
	n := len(months)
	if n > 0 && months[n-1].Month == monthKey(now) && now.Day() < daysInMonth(now) {
		return months[:n-1]
	}
	return months
}

// calendarDaysBetween counts whole calendar days from a to b, ignoring time of day.
func calendarDaysBetween(a, b time.Time) int {
	a, b = startOfDay(a), startOfDay(b)
	// Dates are normalised to UTC midnight first so DST shifts cannot
	// produce a 23- or 25-hour day.
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// spanDays is the inclusive number of calendar days covered by [first, last].
func spanDays(first, last time.Time) int {
	if first.IsZero() || last.IsZero() {
		return 0
	}
	return calendarDaysBetween(first, last) + 1
}

// monthsBetweenKeys counts calendar months between two YYYY-MM keys.
func monthsBetweenKeys(from, to string) int {
	a, errA := time.Parse(monthLayout, from)
	b, errB := time.Parse(monthLayout, to)
	if errA != nil || errB != nil {
		return 0
	}
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
