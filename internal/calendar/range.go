package calendar

import "time"

// Granularity is the calendar zoom level. It determines both the grid shape
// and the date range fetched from the backend.
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
	Year
)

func (g Granularity) String() string {
	switch g {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return "unknown"
	}
}

// ParseGranularity maps a config/CLI string to a Granularity. Unrecognized
// values default to Month.
func ParseGranularity(s string) Granularity {
	switch s {
	case "day":
		return Day
	case "week":
		return Week
	case "year":
		return Year
	default:
		return Month
	}
}

// RangeFor returns the inclusive date range covered by the given view.
// Weeks run Sunday through Saturday. The function is pure: "today"
// highlighting is driven by a separately passed reference, never by the
// wall clock here.
func RangeFor(anchor time.Time, g Granularity) (time.Time, time.Time) {
	switch g {
	case Day:
		return startOfDay(anchor), endOfDay(anchor)
	case Week:
		start := startOfDay(anchor.AddDate(0, 0, -int(anchor.Weekday())))
		return start, endOfDay(start.AddDate(0, 0, 6))
	case Year:
		start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, anchor.Location())
		end := time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, anchor.Location())
		return start, endOfDay(end)
	default: // Month
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		return start, endOfDay(start.AddDate(0, 1, -1))
	}
}

// AddMonths steps t by n calendar months, clamping the day to the target
// month's length. Bare AddDate normalizes overflow, so Jan 31 + 1 month
// would land in March and skip February; here it lands on the last of
// February.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, n, 0)
	day := min(t.Day(), daysInMonth(target.Year(), target.Month()))
	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// SameDay reports whether two instants fall on the same calendar date,
// ignoring the time of day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
