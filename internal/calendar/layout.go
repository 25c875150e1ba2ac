package calendar

import "sort"

// DefaultMinMinutes is the minimum visible block height in minutes, so
// zero/near-zero-duration meetings remain visible and clickable.
const DefaultMinMinutes = 20

// DefaultMaxColumns bounds side-by-side placement of overlapping meetings.
const DefaultMaxColumns = 4

const minutesPerDay = 24 * 60

// LayoutOptions tunes the hour-column layout.
type LayoutOptions struct {
	MinMinutes int
	MaxColumns int
}

func (o LayoutOptions) withDefaults() LayoutOptions {
	if o.MinMinutes <= 0 {
		o.MinMinutes = DefaultMinMinutes
	}
	if o.MaxColumns <= 0 {
		o.MaxColumns = DefaultMaxColumns
	}
	return o
}

// Segment is the part of a block falling inside a single displayed hour
// cell. Only the First segment carries the title; continuations render as
// bare bars.
type Segment struct {
	Hour    int
	Offset  int // minutes below the top of the hour
	Minutes int // visible height within this hour
	First   bool
	Last    bool
}

// Block is a timed event positioned within a 24x60-minute day column.
// Top and Minutes are in minutes of the day; renderers scale them to rows
// or pixels.
type Block struct {
	Event    Event
	Column   int
	Top      int
	Minutes  int
	Segments []Segment
}

// LayoutDay positions the timed events of a day column. Top is the start's
// minutes-of-day, height is the duration clipped up to the minimum visible
// height. Overlapping events are assigned bounded columns in input order so
// every event keeps a distinguishable hit region; the assignment is
// deterministic for identical input.
func LayoutDay(col DayColumn, opts LayoutOptions) []Block {
	opts = opts.withDefaults()

	events := uniqueTimedEvents(col)
	blocks := make([]Block, 0, len(events))
	occupied := make([][][2]int, opts.MaxColumns)

	for _, event := range events {
		top, minutes := clampToDay(event, col, opts.MinMinutes)

		column := 0
		for c := 0; c < opts.MaxColumns; c++ {
			if columnFree(occupied[c], top, top+minutes) {
				column = c
				break
			}
		}
		occupied[column] = append(occupied[column], [2]int{top, top + minutes})

		blocks = append(blocks, Block{
			Event:    event,
			Column:   column,
			Top:      top,
			Minutes:  minutes,
			Segments: segments(top, minutes),
		})
	}
	return blocks
}

// AllDayLane returns the all-day events of a column in a stable order
// (start time, then ID), so re-renders with the same input never shuffle
// the lane.
func AllDayLane(col DayColumn) []Event {
	lane := make([]Event, len(col.AllDay))
	copy(lane, col.AllDay)
	sort.SliceStable(lane, func(i, j int) bool {
		if !lane[i].Start.Equal(lane[j].Start) {
			return lane[i].Start.Before(lane[j].Start)
		}
		return lane[i].ID < lane[j].ID
	})
	return lane
}

// uniqueTimedEvents flattens the hour buckets back into one event per ID,
// preserving first-seen order.
func uniqueTimedEvents(col DayColumn) []Event {
	seen := make(map[string]bool)
	var events []Event
	for h := 0; h < 24; h++ {
		for _, event := range col.Hours[h] {
			if seen[event.ID] {
				continue
			}
			seen[event.ID] = true
			events = append(events, event)
		}
	}
	return events
}

func clampToDay(event Event, col DayColumn, minMinutes int) (top, minutes int) {
	dayStart := col.Date
	dayEnd := dayStart.AddDate(0, 0, 1)

	start := event.Start
	if start.Before(dayStart) {
		start = dayStart
	}
	end := event.End
	if end.After(dayEnd) {
		end = dayEnd
	}

	top = int(start.Sub(dayStart).Minutes())
	minutes = int(end.Sub(start).Minutes())
	if minutes < minMinutes {
		minutes = minMinutes
	}
	if top+minutes > minutesPerDay {
		minutes = minutesPerDay - top
	}
	return top, minutes
}

// segments splits [top, top+minutes) at hour boundaries. First-hour height
// is 60 minus the offset within the hour, interior hours are a full 60, and
// the last hour is the leftover offset.
func segments(top, minutes int) []Segment {
	end := top + minutes
	firstHour := top / 60
	lastHour := (end - 1) / 60

	segs := make([]Segment, 0, lastHour-firstHour+1)
	for h := firstHour; h <= lastHour; h++ {
		segStart := max(top, h*60)
		segEnd := min(end, (h+1)*60)
		segs = append(segs, Segment{
			Hour:    h,
			Offset:  segStart - h*60,
			Minutes: segEnd - segStart,
			First:   h == firstHour,
			Last:    h == lastHour,
		})
	}
	return segs
}

func columnFree(intervals [][2]int, start, end int) bool {
	for _, iv := range intervals {
		if start < iv[1] && end > iv[0] {
			return false
		}
	}
	return true
}
