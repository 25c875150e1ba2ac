package calendar

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/codegym-software/imeetcal/internal/api"
)

// ErrMalformedRecord marks a raw meeting record that cannot be normalized.
// The policy is to drop the record and keep the rest of the batch.
var ErrMalformedRecord = errors.New("malformed meeting record")

// Color is a display color derived from the meeting status.
type Color string

const (
	ColorAmber Color = "amber"
	ColorBlue  Color = "blue"
	ColorRed   Color = "red"
	ColorGreen Color = "green"
	ColorGray  Color = "gray"
)

// Event is a normalized meeting ready for grid placement. All optional
// fields are defaulted so renderers never see nil.
type Event struct {
	ID     string
	Title  string
	Start  time.Time
	End    time.Time
	AllDay bool
	Color  Color

	Location    string
	Organizer   string
	Host        string
	Attendees   []string
	Description string
	MeetingRoom string
	Building    string
	Floor       string
}

// Duration returns the event length.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// statusColor maps a backend status to a display color. Unknown or missing
// statuses fall back to gray rather than failing.
func statusColor(status string) Color {
	switch status {
	case "PENDING":
		return ColorAmber
	case "CONFIRMED":
		return ColorBlue
	case "CANCELLED":
		return ColorRed
	case "COMPLETED":
		return ColorGreen
	default:
		return ColorGray
	}
}

// timestamp layouts accepted from the backend, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// Normalize converts a raw API record into an Event. Unparseable timestamps
// or an end before start yield ErrMalformedRecord.
func Normalize(raw api.RawMeeting) (Event, error) {
	return NormalizeIn(raw, time.Local)
}

// NormalizeIn is Normalize with an explicit timezone for zone-less
// timestamps, so tests do not depend on the host timezone.
func NormalizeIn(raw api.RawMeeting, loc *time.Location) (Event, error) {
	start, err := parseTimestamp(raw.StartTime, loc)
	if err != nil {
		return Event{}, fmt.Errorf("%w: meeting %s: start: %v", ErrMalformedRecord, raw.ID, err)
	}
	end, err := parseTimestamp(raw.EndTime, loc)
	if err != nil {
		return Event{}, fmt.Errorf("%w: meeting %s: end: %v", ErrMalformedRecord, raw.ID, err)
	}
	if end.Before(start) {
		return Event{}, fmt.Errorf("%w: meeting %s: end %s before start %s", ErrMalformedRecord, raw.ID, raw.EndTime, raw.StartTime)
	}

	if raw.AllDay {
		// All-day convention: 00:00:00 on the start day through 23:59:59 on
		// the end day.
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, loc)
	}

	attendees := raw.Attendees
	if attendees == nil {
		attendees = []string{}
	}

	return Event{
		ID:          raw.ID,
		Title:       raw.Title,
		Start:       start,
		End:         end,
		AllDay:      raw.AllDay,
		Color:       statusColor(raw.Status),
		Location:    raw.Location,
		Organizer:   raw.Organizer,
		Host:        raw.Host,
		Attendees:   attendees,
		Description: raw.Description,
		MeetingRoom: raw.MeetingRoom,
		Building:    raw.Building,
		Floor:       raw.Floor,
	}, nil
}

// NormalizeAll normalizes a batch, dropping malformed records. Drops are
// logged for diagnostics only; one bad record never aborts the batch.
func NormalizeAll(raws []api.RawMeeting, logger *log.Logger) []Event {
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		event, err := Normalize(raw)
		if err != nil {
			if logger != nil {
				logger.Printf("dropping meeting record: %v", err)
			}
			continue
		}
		events = append(events, event)
	}
	return events
}
