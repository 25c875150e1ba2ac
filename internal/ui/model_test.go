package ui

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codegym-software/imeetcal/internal/api"
	"github.com/codegym-software/imeetcal/internal/calendar"
	"github.com/codegym-software/imeetcal/internal/config"
)

type fakeSource struct {
	meetings  []api.RawMeeting
	listErr   error
	deleteErr error

	listCalls int
	lastStart time.Time
	lastEnd   time.Time
	deleted   []string
}

func (f *fakeSource) ListMeetings(ctx context.Context, start, end time.Time) ([]api.RawMeeting, error) {
	f.listCalls++
	f.lastStart, f.lastEnd = start, end
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.meetings, nil
}

func (f *fakeSource) DeleteMeeting(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		ServerURL:     "http://localhost:7070",
		TimeFormat:    "15:04",
		DateFormat:    "Jan 2 2006",
		StartupView:   "month",
		RefreshRate:   time.Minute,
		ConfirmDelete: true,
	}
}

func newTestModel(source *fakeSource) *Model {
	logger := log.New(io.Discard, "", 0)
	m := NewModel(testConfig(), source, nil, logger)
	m.width = 120
	m.height = 40
	return m
}

func rawMeeting(id, title, start, end string) api.RawMeeting {
	return api.RawMeeting{ID: id, Title: title, StartTime: start, EndTime: end, Status: "CONFIRMED"}
}

// runCmd executes a command synchronously and feeds the result back into the
// model, the way the bubbletea runtime would.
func runCmd(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		m.Update(msg)
	}
}

func TestFetchLoadsNormalizedBatch(t *testing.T) {
	source := &fakeSource{meetings: []api.RawMeeting{
		rawMeeting("m1", "Standup", "2026-03-10T09:00:00Z", "2026-03-10T09:15:00Z"),
		{ID: "bad", Title: "broken", StartTime: "not-a-time", EndTime: "also-bad"},
	}}
	m := newTestModel(source)
	m.anchor = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	runCmd(t, m, m.fetchCmd())

	if source.listCalls != 1 {
		t.Fatalf("listCalls = %d, want 1", source.listCalls)
	}
	if len(m.events) != 1 || m.events[0].ID != "m1" {
		t.Fatalf("events = %+v, want the single well-formed meeting", m.events)
	}
	if m.loading {
		t.Error("loading still true after result applied")
	}
	if m.loadErr != "" {
		t.Errorf("loadErr = %q, want empty", m.loadErr)
	}
}

func TestStaleFetchResultDiscarded(t *testing.T) {
	source := &fakeSource{}
	m := newTestModel(source)

	// Two overlapping fetches: the first (older) resolves after the second.
	m.fetchCmd()
	oldGen := m.fetchGen
	m.fetchCmd()

	if m.fetchGen == oldGen {
		t.Fatal("second fetch did not advance the generation counter")
	}

	newEvents := []calendar.Event{{ID: "new", Title: "fresh"}}
	oldEvents := []calendar.Event{{ID: "old", Title: "stale"}}

	m.Update(meetingsLoadedMsg{gen: m.fetchGen, events: newEvents})
	m.Update(meetingsLoadedMsg{gen: oldGen, events: oldEvents})

	if len(m.events) != 1 || m.events[0].ID != "new" {
		t.Fatalf("events = %+v, want only the batch from the newer fetch", m.events)
	}
}

func TestFetchFailureClearsBatchAndSetsBanner(t *testing.T) {
	source := &fakeSource{listErr: errors.New("connection refused")}
	m := newTestModel(source)
	m.events = []calendar.Event{{ID: "leftover"}}

	runCmd(t, m, m.fetchCmd())

	if len(m.events) != 0 {
		t.Fatalf("events = %+v, want empty batch after fetch failure", m.events)
	}
	if !strings.Contains(m.loadErr, "connection refused") {
		t.Errorf("loadErr = %q, want it to carry the failure", m.loadErr)
	}
}

func TestReloadClearsTooltip(t *testing.T) {
	m := newTestModel(&fakeSource{})
	m.events = []calendar.Event{{ID: "m1"}}
	m.tooltip.Click("m1", calendar.Position{X: 5, Y: 5})

	m.Update(meetingsLoadedMsg{gen: m.fetchGen, events: nil})

	if m.tooltip.Mode() != calendar.TooltipNone {
		t.Errorf("tooltip mode = %v after reload, want TooltipNone", m.tooltip.Mode())
	}
}

func TestYearViewSkipsFetch(t *testing.T) {
	source := &fakeSource{}
	m := newTestModel(source)
	m.events = []calendar.Event{{ID: "m1"}}

	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})

	if source.listCalls != 0 {
		t.Fatalf("listCalls = %d, want 0 for year view", source.listCalls)
	}
	if len(m.events) != 0 {
		t.Errorf("events = %+v, want cleared in year view", m.events)
	}
}

func TestGranularityKeysFetchNewRange(t *testing.T) {
	tests := []struct {
		key  string
		want calendar.Granularity
	}{
		{"d", calendar.Day},
		{"w", calendar.Week},
		{"1", calendar.Day},
		{"2", calendar.Week},
		{"3", calendar.Month},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			source := &fakeSource{}
			m := newTestModel(source)
			m.granularity = calendar.Year

			_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})
			runCmd(t, m, cmd)

			if m.granularity != tt.want {
				t.Fatalf("granularity = %v, want %v", m.granularity, tt.want)
			}
			if source.listCalls != 1 {
				t.Errorf("listCalls = %d, want 1", source.listCalls)
			}
			start, end := calendar.RangeFor(m.anchor, tt.want)
			if !source.lastStart.Equal(start) || !source.lastEnd.Equal(end) {
				t.Errorf("fetched [%v, %v], want [%v, %v]", source.lastStart, source.lastEnd, start, end)
			}
		})
	}
}

func TestDeleteRequiresPinnedTooltip(t *testing.T) {
	source := &fakeSource{}
	m := newTestModel(source)
	m.events = []calendar.Event{{ID: "m1"}}

	_, cmd := m.handleDeleteKey()
	if cmd != nil {
		t.Fatal("delete produced a command with nothing pinned")
	}
	if len(source.deleted) != 0 {
		t.Errorf("deleted = %v, want none", source.deleted)
	}
}

func TestDeleteConfirmTwoPress(t *testing.T) {
	source := &fakeSource{}
	m := newTestModel(source)
	m.events = []calendar.Event{{ID: "m1", Title: "Standup"}}
	m.tooltip.Click("m1", calendar.Position{X: 3, Y: 3})

	// First press arms, second press deletes.
	_, cmd := m.handleDeleteKey()
	if cmd != nil {
		t.Fatal("first press should only arm the deletion")
	}
	if m.pendingDelete != "m1" {
		t.Fatalf("pendingDelete = %q, want m1", m.pendingDelete)
	}

	_, cmd = m.handleDeleteKey()
	runCmd(t, m, cmd)

	if len(source.deleted) != 1 || source.deleted[0] != "m1" {
		t.Fatalf("deleted = %v, want [m1]", source.deleted)
	}
	if len(m.events) != 0 {
		t.Errorf("events = %+v, want the deleted meeting removed", m.events)
	}
	if m.tooltip.Mode() != calendar.TooltipNone {
		t.Errorf("tooltip mode = %v after delete, want TooltipNone", m.tooltip.Mode())
	}
}

func TestDeleteFailureKeepsEvent(t *testing.T) {
	source := &fakeSource{deleteErr: errors.New("403 forbidden")}
	m := newTestModel(source)
	m.cfg.ConfirmDelete = false
	m.events = []calendar.Event{{ID: "m1", Title: "Standup"}}
	m.tooltip.Click("m1", calendar.Position{X: 3, Y: 3})

	_, cmd := m.handleDeleteKey()
	runCmd(t, m, cmd)

	if len(m.events) != 1 {
		t.Fatalf("events = %+v, want the meeting kept after delete failure", m.events)
	}
	if !strings.Contains(m.message, "delete failed") {
		t.Errorf("message = %q, want a delete failure notice", m.message)
	}
}

func TestMouseHoverAndPin(t *testing.T) {
	m := newTestModel(&fakeSource{})
	m.events = []calendar.Event{{ID: "m1", Title: "Standup"}}
	m.hits = []hitRegion{{x: 10, y: 5, w: 12, h: 1, eventID: "m1"}}

	hover := tea.MouseMsg{X: 12, Y: 5, Action: tea.MouseActionMotion}
	m.handleMouse(hover)
	if m.tooltip.Mode() != calendar.TooltipHovering {
		t.Fatalf("mode = %v after hover, want TooltipHovering", m.tooltip.Mode())
	}

	away := tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion}
	m.handleMouse(away)
	if m.tooltip.Mode() != calendar.TooltipNone {
		t.Fatalf("mode = %v after leaving, want TooltipNone", m.tooltip.Mode())
	}

	click := tea.MouseMsg{X: 12, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m.handleMouse(click)
	if m.tooltip.Mode() != calendar.TooltipPinned {
		t.Fatalf("mode = %v after click, want TooltipPinned", m.tooltip.Mode())
	}

	// Leaving a pinned tooltip must not dismiss it.
	m.handleMouse(away)
	if m.tooltip.Mode() != calendar.TooltipPinned {
		t.Fatalf("mode = %v after motion away from pinned, want TooltipPinned", m.tooltip.Mode())
	}

	outside := tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m.handleMouse(outside)
	if m.tooltip.Mode() != calendar.TooltipNone {
		t.Fatalf("mode = %v after outside click, want TooltipNone", m.tooltip.Mode())
	}
}

func TestMoveAnchorMonthEndStepsOneMonth(t *testing.T) {
	tests := []struct {
		name      string
		anchor    time.Time
		direction int
		wantYear  int
		wantMonth time.Month
	}{
		{"forward from Jan 31", time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), 1, 2026, time.February},
		{"backward from May 31", time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC), -1, 2026, time.April},
		{"forward from Oct 31", time.Date(2026, time.October, 31, 0, 0, 0, 0, time.UTC), 1, 2026, time.November},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(&fakeSource{})
			m.granularity = calendar.Month
			m.anchor = tt.anchor

			m.moveAnchor(tt.direction)

			if m.anchor.Year() != tt.wantYear || m.anchor.Month() != tt.wantMonth {
				t.Errorf("anchor = %v, want %v %d", m.anchor, tt.wantMonth, tt.wantYear)
			}
		})
	}
}

func TestMoveAnchorYearFromLeapDay(t *testing.T) {
	m := newTestModel(&fakeSource{})
	m.granularity = calendar.Year
	m.anchor = time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)

	m.moveAnchor(1)

	if m.anchor.Year() != 2025 || m.anchor.Month() != time.February {
		t.Errorf("anchor = %v, want February 2025", m.anchor)
	}
}

func TestConfigReloadFailureSurfaced(t *testing.T) {
	source := &fakeSource{}
	m := newTestModel(source)
	m.cfg.Path = "/nonexistent/imeetcal/config.yaml"

	_, cmd := m.Update(ConfigChangedMsg{})

	if !strings.Contains(m.message, "config reload failed") {
		t.Errorf("message = %q, want a reload failure notice", m.message)
	}
	if cmd != nil {
		t.Error("reload failure should not trigger a refetch")
	}
}

func TestEditKeyOnPinnedMeeting(t *testing.T) {
	m := newTestModel(&fakeSource{})
	m.events = []calendar.Event{{ID: "m1", Title: "Standup"}}

	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if m.message != "" {
		t.Errorf("message = %q with nothing pinned, want none", m.message)
	}

	m.tooltip.Click("m1", calendar.Position{X: 3, Y: 3})
	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if !strings.Contains(m.message, "editing is not available") {
		t.Errorf("message = %q, want the edit notice", m.message)
	}
}

func TestShiftAnchorWithinMonthSkipsFetch(t *testing.T) {
	source := &fakeSource{}
	m := newTestModel(source)
	m.anchor = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	_, cmd := m.shiftAnchorDays(7)
	if cmd != nil {
		t.Error("moving within the month should not refetch")
	}

	_, cmd = m.shiftAnchorDays(21)
	if cmd == nil {
		t.Error("crossing into April should refetch")
	}
}

func TestTickIsCosmetic(t *testing.T) {
	source := &fakeSource{}
	m := newTestModel(source)

	before := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	m.now = before
	m.Update(tickMsg(before.Add(time.Minute)))

	if !m.now.Equal(before.Add(time.Minute)) {
		t.Errorf("now = %v, want advanced by one tick", m.now)
	}
	if source.listCalls != 0 {
		t.Errorf("listCalls = %d, want 0 (tick never fetches)", source.listCalls)
	}
}

func TestViewRendersEventTitleOnce(t *testing.T) {
	m := newTestModel(&fakeSource{})
	m.granularity = calendar.Day
	m.anchor = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	m.topHour = 8
	m.events = []calendar.Event{{
		ID:    "m1",
		Title: "Design sync",
		Start: time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 10, 11, 15, 0, 0, time.UTC),
		Color: calendar.ColorBlue,
	}}

	out := m.View()
	if n := strings.Count(out, "Design sync"); n != 1 {
		t.Errorf("title rendered %d times, want exactly once", n)
	}
}
