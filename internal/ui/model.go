package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/codegym-software/imeetcal/internal/api"
	"github.com/codegym-software/imeetcal/internal/calendar"
	"github.com/codegym-software/imeetcal/internal/config"
)

// Booker is the part of the backend used by the meeting-creation form.
type Booker interface {
	CreateMeeting(ctx context.Context, req api.CreateMeetingRequest) (api.RawMeeting, error)
	api.RoomSource
}

type overlayMode int

const (
	overlayNone overlayMode = iota
	overlayHelp
	overlayForm
)

// hitRegion maps a rendered rectangle back to the event drawn there, for
// mouse hover and click resolution.
type hitRegion struct {
	x, y, w, h int
	eventID    string
}

// Model is the calendar orchestrator: it owns the anchor date, granularity
// and event batch, and delegates grid building, layout and tooltip state to
// internal/calendar.
type Model struct {
	cfg    *config.Config
	source api.MeetingSource
	booker Booker
	logger *log.Logger

	granularity calendar.Granularity
	anchor      time.Time
	events      []calendar.Event
	now         time.Time

	// fetchGen guards against a stale in-flight fetch overwriting the batch
	// for a newer range (last-write-wins).
	fetchGen int
	loading  bool
	loadErr  string

	tooltip       calendar.Tooltip
	hits          []hitRegion
	pendingDelete string

	mode    overlayMode
	form    *meetingForm
	topHour int

	width   int
	height  int
	message string
	styles  Styles
}

// NewModel builds the initial model. booker may be nil; the creation form is
// then unavailable.
func NewModel(cfg *config.Config, source api.MeetingSource, booker Booker, logger *log.Logger) *Model {
	now := time.Now()
	return &Model{
		cfg:         cfg,
		source:      source,
		booker:      booker,
		logger:      logger,
		granularity: calendar.ParseGranularity(cfg.StartupView),
		anchor:      now,
		now:         now,
		topHour:     8,
		styles:      DefaultStyles(),
	}
}

// Message types
type tickMsg time.Time

type meetingsLoadedMsg struct {
	gen    int
	events []calendar.Event
	err    error
}

type meetingDeletedMsg struct {
	id  string
	err error
}

type meetingCreatedMsg struct {
	err error
}

type roomsLoadedMsg struct {
	rooms []api.Room
	err   error
}

type devicesLoadedMsg struct {
	roomID  string
	devices []api.Device
}

// ConfigChangedMsg is sent from outside (the config file watcher) to make
// the UI reload settings and refresh its data.
type ConfigChangedMsg struct{}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.fetchCmd())
}

// tickCmd advances the clock reference used for the now line and today
// highlighting. Cosmetic only: it never triggers a fetch.
func (m *Model) tickCmd() tea.Cmd {
	rate := m.cfg.RefreshRate
	if rate <= 0 {
		rate = time.Minute
	}
	return tea.Tick(rate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchCmd starts a meeting fetch for the current anchor/granularity range.
// The generation counter carried in the result lets Update discard results
// that were superseded by a newer fetch.
func (m *Model) fetchCmd() tea.Cmd {
	if m.granularity == calendar.Year {
		// Year view places no events; load is deferred to drill-down.
		m.fetchGen++
		m.loading = false
		m.events = nil
		m.loadErr = ""
		m.tooltip.Clear()
		return nil
	}

	m.fetchGen++
	gen := m.fetchGen
	m.loading = true
	start, end := calendar.RangeFor(m.anchor, m.granularity)
	source := m.source
	logger := m.logger

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		raws, err := source.ListMeetings(ctx, start, end)
		if err != nil {
			return meetingsLoadedMsg{gen: gen, err: err}
		}
		return meetingsLoadedMsg{gen: gen, events: calendar.NormalizeAll(raws, logger)}
	}
}

func (m *Model) deleteCmd(id string) tea.Cmd {
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return meetingDeletedMsg{id: id, err: source.DeleteMeeting(ctx, id)}
	}
}

func (m *Model) roomsCmd() tea.Cmd {
	booker := m.booker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		rooms, err := booker.ListAvailableRooms(ctx)
		return roomsLoadedMsg{rooms: rooms, err: err}
	}
}

func (m *Model) devicesCmd(roomID string) tea.Cmd {
	booker := m.booker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		devices, err := booker.ListDevicesForRoom(ctx, roomID)
		if err != nil {
			// Device list is decoration on the form; ignore failures.
			return devicesLoadedMsg{roomID: roomID}
		}
		return devicesLoadedMsg{roomID: roomID, devices: devices}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		m.now = time.Time(msg)
		return m, m.tickCmd()

	case meetingsLoadedMsg:
		if msg.gen != m.fetchGen {
			// A newer fetch was started for a different range; this result
			// is stale and must not be applied.
			return m, nil
		}
		m.loading = false
		m.tooltip.Clear()
		m.pendingDelete = ""
		if msg.err != nil {
			m.events = nil
			m.loadErr = "could not load meetings: " + msg.err.Error()
			return m, nil
		}
		m.events = msg.events
		m.loadErr = ""
		return m, nil

	case meetingDeletedMsg:
		if msg.err != nil {
			m.showMessage("delete failed: " + msg.err.Error())
			return m, nil
		}
		m.removeEvent(msg.id)
		m.tooltip.Clear()
		m.showMessage("meeting deleted")
		return m, nil

	case meetingCreatedMsg:
		if msg.err != nil {
			m.showMessage("create failed: " + msg.err.Error())
			return m, nil
		}
		m.mode = overlayNone
		m.form = nil
		m.showMessage("meeting created")
		return m, m.fetchCmd()

	case roomsLoadedMsg:
		if m.form != nil {
			if msg.err != nil {
				m.form.roomsErr = msg.err.Error()
			} else {
				m.form.rooms = msg.rooms
			}
			if len(m.form.rooms) > 0 {
				return m, m.devicesCmd(m.form.rooms[0].ID)
			}
		}
		return m, nil

	case devicesLoadedMsg:
		if m.form != nil && m.form.selectedRoomID() == msg.roomID {
			m.form.devices = msg.devices
		}
		return m, nil

	case ConfigChangedMsg:
		cfg, err := config.LoadConfig(m.cfg.Path)
		if err != nil {
			m.showMessage("config reload failed: " + err.Error())
			return m, nil
		}
		m.cfg = cfg
		m.showMessage("config reloaded")
		return m, m.fetchCmd()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == overlayForm {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		if m.mode == overlayHelp {
			m.mode = overlayNone
		} else {
			m.mode = overlayHelp
		}
		return m, nil

	case "esc":
		m.mode = overlayNone
		m.tooltip.ClickOutside()
		m.pendingDelete = ""
		return m, nil

	case "r":
		return m, m.fetchCmd()

	case "t":
		m.anchor = m.now
		return m, m.fetchCmd()

	case "1", "d":
		return m.switchGranularity(calendar.Day)
	case "2", "w":
		return m.switchGranularity(calendar.Week)
	case "3", "m":
		return m.switchGranularity(calendar.Month)
	case "4", "y":
		return m.switchGranularity(calendar.Year)

	case "h", "left":
		return m.moveAnchor(-1)
	case "l", "right":
		return m.moveAnchor(1)

	case "j", "down":
		switch m.granularity {
		case calendar.Day, calendar.Week:
			if m.topHour < 23 {
				m.topHour++
			}
		case calendar.Month:
			return m.shiftAnchorDays(7)
		}
		return m, nil

	case "k", "up":
		switch m.granularity {
		case calendar.Day, calendar.Week:
			if m.topHour > 0 {
				m.topHour--
			}
		case calendar.Month:
			return m.shiftAnchorDays(-7)
		}
		return m, nil

	case "enter":
		if m.granularity == calendar.Year {
			return m.switchGranularity(calendar.Month)
		}
		return m, nil

	case "n":
		if m.booker == nil {
			m.showMessage("meeting creation unavailable")
			return m, nil
		}
		m.mode = overlayForm
		m.form = newMeetingForm(m.anchor)
		return m, m.roomsCmd()

	case "e":
		// Editing goes through the backend's web form; the popover only
		// offers the affordance.
		if m.tooltip.Mode() == calendar.TooltipPinned {
			m.showMessage("editing is not available here; use the web client")
		}
		return m, nil

	case "x", "delete":
		return m.handleDeleteKey()
	}

	return m, nil
}

// handleDeleteKey deletes the pinned meeting; with confirm_delete enabled
// the first press arms the deletion and the second one executes it.
func (m *Model) handleDeleteKey() (tea.Model, tea.Cmd) {
	if m.tooltip.Mode() != calendar.TooltipPinned {
		return m, nil
	}
	id := m.tooltip.EventID()

	if m.cfg.ConfirmDelete && m.pendingDelete != id {
		m.pendingDelete = id
		m.showMessage("press x again to delete")
		return m, nil
	}

	m.pendingDelete = ""
	return m, m.deleteCmd(id)
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != overlayNone {
		return m, nil
	}

	pos := calendar.Position{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionMotion:
		if id, ok := m.hitTest(msg.X, msg.Y); ok {
			m.tooltip.Enter(id, pos)
		} else {
			m.tooltip.Leave()
		}

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if id, ok := m.hitTest(msg.X, msg.Y); ok {
			if m.pendingDelete != "" && m.pendingDelete != id {
				m.pendingDelete = ""
			}
			m.tooltip.Click(id, pos)
		} else {
			m.tooltip.ClickOutside()
			m.pendingDelete = ""
		}
	}

	return m, nil
}

func (m *Model) switchGranularity(g calendar.Granularity) (tea.Model, tea.Cmd) {
	if m.granularity == g {
		return m, nil
	}
	m.granularity = g
	return m, m.fetchCmd()
}

// moveAnchor shifts the anchor by one unit of the current granularity.
// Month and year steps clamp the day so a month-end anchor never skips or
// repeats a month.
func (m *Model) moveAnchor(direction int) (tea.Model, tea.Cmd) {
	switch m.granularity {
	case calendar.Day:
		m.anchor = m.anchor.AddDate(0, 0, direction)
	case calendar.Week:
		m.anchor = m.anchor.AddDate(0, 0, 7*direction)
	case calendar.Month:
		m.anchor = calendar.AddMonths(m.anchor, direction)
	case calendar.Year:
		m.anchor = calendar.AddMonths(m.anchor, 12*direction)
	}
	return m, m.fetchCmd()
}

// shiftAnchorDays moves the selected day inside the month view, refetching
// only when the visible month actually changes.
func (m *Model) shiftAnchorDays(days int) (tea.Model, tea.Cmd) {
	previous := m.anchor
	m.anchor = m.anchor.AddDate(0, 0, days)
	if previous.Month() != m.anchor.Month() || previous.Year() != m.anchor.Year() {
		return m, m.fetchCmd()
	}
	return m, nil
}

func (m *Model) removeEvent(id string) {
	kept := m.events[:0]
	for _, event := range m.events {
		if event.ID != id {
			kept = append(kept, event)
		}
	}
	m.events = kept
}

func (m *Model) hitTest(x, y int) (string, bool) {
	for _, region := range m.hits {
		if x >= region.x && x < region.x+region.w && y >= region.y && y < region.y+region.h {
			return region.eventID, true
		}
	}
	return "", false
}

func (m *Model) eventByID(id string) (calendar.Event, bool) {
	for _, event := range m.events {
		if event.ID == id {
			return event, true
		}
	}
	return calendar.Event{}, false
}

func (m *Model) showMessage(msg string) {
	m.message = msg
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.mode {
	case overlayHelp:
		return m.viewHelp()
	case overlayForm:
		return m.viewForm()
	}

	m.hits = m.hits[:0]

	var base string
	switch m.granularity {
	case calendar.Day:
		base = m.viewDay()
	case calendar.Week:
		base = m.viewWeek()
	case calendar.Year:
		base = m.viewYear()
	default:
		base = m.viewMonth()
	}

	base = base + "\n" + m.renderStatusBar()
	return m.overlayTooltip(base)
}

// overlayTooltip draws the hover/pinned popover on top of the current view.
// Placement is recomputed on every show so window resizes and pointer moves
// keep it inside the viewport.
func (m *Model) overlayTooltip(base string) string {
	if m.tooltip.Mode() == calendar.TooltipNone {
		return base
	}
	event, ok := m.eventByID(m.tooltip.EventID())
	if !ok {
		return base
	}

	popup := m.renderTooltip(event)
	tip := calendar.Size{Width: lipgloss.Width(popup), Height: lipgloss.Height(popup)}
	pos := calendar.Place(m.tooltip.Pos(), tip, calendar.Size{Width: m.width, Height: m.height})
	return overlay(base, popup, pos.X, pos.Y)
}

func fmtTimeRange(event calendar.Event, timeFormat string) string {
	if event.AllDay {
		return "All day"
	}
	return fmt.Sprintf("%s – %s", event.Start.Format(timeFormat), event.End.Format(timeFormat))
}
