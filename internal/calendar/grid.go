package calendar

import "time"

// MonthGridCells is the fixed month grid size: 6 full weeks, so the layout
// height never changes between months.
const MonthGridCells = 42

// Cell is one day in a month (or mini-month) grid, rebuilt on every render
// pass. In year mini-grids, padding cells have a zero Date.
type Cell struct {
	Date     time.Time
	InMonth  bool
	Today    bool
	Selected bool
	Events   []Event
}

// DayColumn holds one day's events partitioned into the all-day lane and
// per-hour buckets. A timed event appears in every hour bucket its interval
// overlaps.
type DayColumn struct {
	Date   time.Time
	AllDay []Event
	Hours  [24][]Event
}

// MiniMonth is one month of the year grid. Events are not placed here;
// drill-down to the month view loads them.
type MiniMonth struct {
	Year  int
	Month time.Month
	Cells []Cell
}

// BuildMonthGrid returns exactly MonthGridCells cells covering the anchor's
// month plus the leading/trailing days needed to fill 6 Sunday-start weeks.
// Adjacent-month cells are fully populated (they receive events too) but
// carry InMonth=false. Today and Selected are independent calendar-date
// checks against the passed references.
func BuildMonthGrid(anchor time.Time, events []Event, today, selected time.Time) []Cell {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	gridStart := first.AddDate(0, 0, -int(first.Weekday()))

	cells := make([]Cell, MonthGridCells)
	for i := range cells {
		date := gridStart.AddDate(0, 0, i)
		cells[i] = Cell{
			Date:     date,
			InMonth:  date.Month() == anchor.Month(),
			Today:    SameDay(date, today),
			Selected: SameDay(date, selected),
			Events:   eventsOnDay(events, date),
		}
	}
	return cells
}

// BuildWeekGrid returns 7 day columns, Sunday through Saturday, for the week
// containing the anchor.
func BuildWeekGrid(anchor time.Time, events []Event) []DayColumn {
	start, _ := RangeFor(anchor, Week)

	columns := make([]DayColumn, 7)
	for i := range columns {
		columns[i] = BuildDayGrid(start.AddDate(0, 0, i), events)
	}
	return columns
}

// BuildDayGrid partitions one day's events into the all-day lane and hour
// buckets.
func BuildDayGrid(anchor time.Time, events []Event) DayColumn {
	col := DayColumn{Date: startOfDay(anchor)}
	dayStart := col.Date
	dayEnd := dayStart.AddDate(0, 0, 1)

	for _, event := range events {
		if !overlaps(event.Start, event.End, dayStart, dayEnd) {
			continue
		}
		if event.AllDay {
			col.AllDay = append(col.AllDay, event)
			continue
		}
		first, last := hourSpan(event, dayStart)
		for h := first; h <= last; h++ {
			col.Hours[h] = append(col.Hours[h], event)
		}
	}
	return col
}

// BuildYearGrid returns 12 mini-month grids for the anchor's year. Each is a
// standard 42-cell layout with zero-date padding instead of adjacent-month
// days.
func BuildYearGrid(anchor time.Time) []MiniMonth {
	months := make([]MiniMonth, 12)
	for i := range months {
		first := time.Date(anchor.Year(), time.Month(i+1), 1, 0, 0, 0, 0, anchor.Location())
		daysInMonth := first.AddDate(0, 1, -1).Day()
		offset := int(first.Weekday())

		cells := make([]Cell, MonthGridCells)
		for d := 0; d < daysInMonth; d++ {
			cells[offset+d] = Cell{
				Date:    first.AddDate(0, 0, d),
				InMonth: true,
			}
		}
		months[i] = MiniMonth{Year: anchor.Year(), Month: first.Month(), Cells: cells}
	}
	return months
}

// hourSpan returns the first and last hour buckets of dayStart's day that the
// event's interval overlaps, clamped to 0..23 for events crossing midnight.
// Zero-duration events occupy their start hour so they stay visible.
func hourSpan(event Event, dayStart time.Time) (int, int) {
	dayEnd := dayStart.AddDate(0, 0, 1)

	first := 0
	if event.Start.After(dayStart) {
		first = event.Start.Hour()
	}

	last := 23
	if event.End.Before(dayEnd) {
		last = event.End.Hour()
		// An event ending exactly on the hour does not reach into that bucket.
		if event.End.Minute() == 0 && event.End.Second() == 0 && last > first {
			last--
		}
	}
	return first, last
}

func eventsOnDay(events []Event, date time.Time) []Event {
	dayStart := startOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var matched []Event
	for _, event := range events {
		if overlaps(event.Start, event.End, dayStart, dayEnd) {
			matched = append(matched, event)
		}
	}
	return matched
}

// overlaps reports whether [aStart, aEnd] intersects [bStart, bEnd). A
// zero-length interval counts when its instant lies inside b.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aEnd.After(aStart) {
		return !aStart.Before(bStart) && aStart.Before(bEnd)
	}
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
