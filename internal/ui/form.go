package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/codegym-software/imeetcal/internal/api"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDate
	fieldStart
	fieldEnd
	fieldRoom
	fieldCount
)

// meetingForm collects the fields for a new meeting. Rooms and their
// devices come from the room lookup endpoints; everything else is typed.
type meetingForm struct {
	field formField

	title string
	date  string
	start string
	end   string

	rooms    []api.Room
	roomIdx  int
	devices  []api.Device
	roomsErr string

	submitErr string
}

func newMeetingForm(anchor time.Time) *meetingForm {
	return &meetingForm{
		date:  anchor.Format("2006-01-02"),
		start: "09:00",
		end:   "10:00",
	}
}

func (f *meetingForm) selectedRoomID() string {
	if len(f.rooms) == 0 {
		return ""
	}
	return f.rooms[f.roomIdx].ID
}

// buffer returns the text buffer behind the active field, nil for the room
// selector.
func (f *meetingForm) buffer() *string {
	switch f.field {
	case fieldTitle:
		return &f.title
	case fieldDate:
		return &f.date
	case fieldStart:
		return &f.start
	case fieldEnd:
		return &f.end
	default:
		return nil
	}
}

// request validates the buffers and builds the create payload.
func (f *meetingForm) request(loc *time.Location) (api.CreateMeetingRequest, error) {
	if strings.TrimSpace(f.title) == "" {
		return api.CreateMeetingRequest{}, fmt.Errorf("title is required")
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", f.date+" "+f.start, loc)
	if err != nil {
		return api.CreateMeetingRequest{}, fmt.Errorf("invalid start: %v", err)
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", f.date+" "+f.end, loc)
	if err != nil {
		return api.CreateMeetingRequest{}, fmt.Errorf("invalid end: %v", err)
	}
	if !end.After(start) {
		return api.CreateMeetingRequest{}, fmt.Errorf("end must be after start")
	}

	return api.CreateMeetingRequest{
		Title:     strings.TrimSpace(f.title),
		StartTime: start.Format(time.RFC3339),
		EndTime:   end.Format(time.RFC3339),
		RoomID:    f.selectedRoomID(),
	}, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := m.form
	if form == nil {
		m.mode = overlayNone
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEscape:
		m.mode = overlayNone
		m.form = nil
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		form.field = (form.field + 1) % fieldCount
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		form.field = (form.field + fieldCount - 1) % fieldCount
		return m, nil

	case tea.KeyLeft, tea.KeyRight:
		if form.field == fieldRoom && len(form.rooms) > 0 {
			if msg.Type == tea.KeyRight {
				form.roomIdx = (form.roomIdx + 1) % len(form.rooms)
			} else {
				form.roomIdx = (form.roomIdx + len(form.rooms) - 1) % len(form.rooms)
			}
			form.devices = nil
			return m, m.devicesCmd(form.selectedRoomID())
		}
		return m, nil

	case tea.KeyEnter:
		req, err := form.request(time.Local)
		if err != nil {
			form.submitErr = err.Error()
			return m, nil
		}
		form.submitErr = ""
		return m, m.createCmd(req)

	case tea.KeyBackspace:
		if buf := form.buffer(); buf != nil && len(*buf) > 0 {
			*buf = (*buf)[:len(*buf)-1]
		}
		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if buf := form.buffer(); buf != nil {
			*buf += string(msg.Runes)
			if msg.Type == tea.KeySpace {
				*buf += " "
			}
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) createCmd(req api.CreateMeetingRequest) tea.Cmd {
	booker := m.booker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_, err := booker.CreateMeeting(ctx, req)
		return meetingCreatedMsg{err: err}
	}
}

func (m *Model) viewForm() string {
	form := m.form
	if form == nil {
		return ""
	}

	var lines []string
	lines = append(lines, m.styles.Header.Render("New meeting"))
	lines = append(lines, "")

	renderField := func(field formField, label, value string) {
		style := m.styles.Normal
		if form.field == field {
			style = m.styles.Input
			value += "█"
		}
		lines = append(lines, m.styles.Label.Render(padRight(label, 8))+style.Render(value))
	}

	renderField(fieldTitle, "Title", form.title)
	renderField(fieldDate, "Date", form.date)
	renderField(fieldStart, "Start", form.start)
	renderField(fieldEnd, "End", form.end)

	roomLabel := "(no rooms available)"
	if form.roomsErr != "" {
		roomLabel = "rooms unavailable: " + form.roomsErr
	} else if len(form.rooms) > 0 {
		room := form.rooms[form.roomIdx]
		roomLabel = fmt.Sprintf("◂ %s (%d seats) ▸", room.Name, room.Capacity)
	}
	style := m.styles.Normal
	if form.field == fieldRoom {
		style = m.styles.Input
	}
	lines = append(lines, m.styles.Label.Render(padRight("Room", 8))+style.Render(roomLabel))

	if len(form.devices) > 0 {
		names := make([]string, len(form.devices))
		for i, d := range form.devices {
			names[i] = d.Name
		}
		lines = append(lines, m.styles.Dim.Render(padRight("", 8)+"devices: "+strings.Join(names, ", ")))
	}

	lines = append(lines, "")
	if form.submitErr != "" {
		lines = append(lines, m.styles.ErrBanner.Render(form.submitErr))
	}
	lines = append(lines, m.styles.Help.Render("tab: next field · ◂/▸: pick room · enter: create · esc: cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
