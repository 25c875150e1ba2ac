package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/codegym-software/imeetcal/internal/calendar"
)

const hourLabelWidth = 6 // "09:00 "

func (m *Model) addHit(x, y, w, h int, eventID string) {
	if w <= 0 || h <= 0 {
		return
	}
	m.hits = append(m.hits, hitRegion{x: x, y: y, w: w, h: h, eventID: eventID})
}

// viewMonth renders the fixed 6-week month grid. Grid height is constant
// regardless of how many weeks the month actually needs.
func (m *Model) viewMonth() string {
	var lines []string
	lines = m.appendBanner(lines)

	lines = append(lines, m.styles.Header.Render(m.anchor.Format("January 2006")))

	cellW := m.width / 7
	if cellW < 8 {
		cellW = 8
	}

	var dayNames strings.Builder
	for d := 0; d < 7; d++ {
		dayNames.WriteString(padRight(weekdayName(d), cellW))
	}
	lines = append(lines, m.styles.WeekDay.Render(dayNames.String()))

	contentRows := m.height - len(lines) - 1 // status bar
	cellH := contentRows / 6
	if cellH < 2 {
		cellH = 2
	}

	cells := calendar.BuildMonthGrid(m.anchor, m.events, m.now, m.anchor)

	for week := 0; week < 6; week++ {
		for line := 0; line < cellH; line++ {
			y := len(lines)
			var row strings.Builder
			for col := 0; col < 7; col++ {
				cell := cells[week*7+col]
				row.WriteString(m.renderMonthCellLine(cell, line, cellH, cellW, col*cellW, y))
			}
			lines = append(lines, row.String())
		}
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderMonthCellLine(cell calendar.Cell, line, cellH, cellW, x, y int) string {
	if line == 0 {
		label := fmt.Sprintf("%2d", cell.Date.Day())
		style := m.styles.Normal
		switch {
		case cell.Selected:
			style = m.styles.Selected
		case cell.Today:
			style = m.styles.Today
		case !cell.InMonth:
			style = m.styles.Dim
		}
		return padRight(style.Render(label), cellW)
	}

	idx := line - 1
	visible := cellH - 1
	if idx == visible-1 && len(cell.Events) > visible {
		extra := len(cell.Events) - visible + 1
		return padRight(m.styles.Dim.Render(fmt.Sprintf("+%d more", extra)), cellW)
	}
	if idx >= len(cell.Events) {
		return strings.Repeat(" ", cellW)
	}

	event := cell.Events[idx]
	m.addHit(x, y, cellW-1, 1, event.ID)
	title := clip(event.Title, cellW-1)
	return padRight(m.styles.eventStyle(event.Color).Render(title), cellW)
}

// viewWeek renders 7 day columns with an all-day lane on top and hour rows
// below, scrolled by topHour.
func (m *Model) viewWeek() string {
	columns := calendar.BuildWeekGrid(m.anchor, m.events)
	start := columns[0].Date
	end := columns[6].Date

	var lines []string
	lines = m.appendBanner(lines)
	lines = append(lines, m.styles.Header.Render(
		fmt.Sprintf("%s – %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))))

	colW := (m.width - hourLabelWidth) / 7
	if colW < 6 {
		colW = 6
	}

	// Day-of-week header
	var header strings.Builder
	header.WriteString(strings.Repeat(" ", hourLabelWidth))
	for _, col := range columns {
		label := col.Date.Format("Mon 2")
		style := m.styles.WeekDay
		if calendar.SameDay(col.Date, m.now) {
			style = m.styles.Today
		}
		header.WriteString(padRight(style.Render(label), colW))
	}
	lines = append(lines, header.String())

	// All-day lane
	laneY := len(lines)
	var lane strings.Builder
	lane.WriteString(padRight(m.styles.Dim.Render("all-d"), hourLabelWidth))
	for i, col := range columns {
		lane.WriteString(m.renderAllDayCell(col, colW, hourLabelWidth+i*colW, laneY))
	}
	lines = append(lines, lane.String())

	// Hour rows
	layouts := make([][]calendar.Block, 7)
	numCols := make([]int, 7)
	opts := calendar.LayoutOptions{MinMinutes: m.cfg.MinBlockMinutes}
	for i, col := range columns {
		layouts[i] = calendar.LayoutDay(col, opts)
		numCols[i] = columnCount(layouts[i])
	}

	visible := m.height - len(lines) - 1
	for h := m.topHour; h < 24 && visible > 0; h, visible = h+1, visible-1 {
		y := len(lines)
		var row strings.Builder
		row.WriteString(m.renderHourLabel(h))
		for i := range columns {
			isToday := calendar.SameDay(columns[i].Date, m.now)
			row.WriteString(m.renderHourCell(layouts[i], numCols[i], h, colW, hourLabelWidth+i*colW, y, isToday))
		}
		lines = append(lines, row.String())
	}

	return strings.Join(lines, "\n")
}

// viewDay renders a single day column with room to spread overlapping
// meetings side by side.
func (m *Model) viewDay() string {
	col := calendar.BuildDayGrid(m.anchor, m.events)

	var lines []string
	lines = m.appendBanner(lines)
	lines = append(lines, m.styles.Header.Render(m.anchor.Format("Monday, January 2, 2006")))

	colW := m.width - hourLabelWidth
	if colW < 20 {
		colW = 20
	}

	laneY := len(lines)
	var lane strings.Builder
	lane.WriteString(padRight(m.styles.Dim.Render("all-d"), hourLabelWidth))
	lane.WriteString(m.renderAllDayCell(col, colW, hourLabelWidth, laneY))
	lines = append(lines, lane.String())

	blocks := calendar.LayoutDay(col, calendar.LayoutOptions{MinMinutes: m.cfg.MinBlockMinutes})
	numCols := columnCount(blocks)
	isToday := calendar.SameDay(col.Date, m.now)

	visible := m.height - len(lines) - 1
	for h := m.topHour; h < 24 && visible > 0; h, visible = h+1, visible-1 {
		y := len(lines)
		var row strings.Builder
		row.WriteString(m.renderHourLabel(h))
		row.WriteString(m.renderHourCell(blocks, numCols, h, colW, hourLabelWidth, y, isToday))
		lines = append(lines, row.String())
	}

	return strings.Join(lines, "\n")
}

// viewYear renders 12 mini-month grids, four per row. Events are not placed
// here; enter drills down to the month view.
func (m *Model) viewYear() string {
	months := calendar.BuildYearGrid(m.anchor)

	var sections []string
	banner := m.appendBanner(nil)
	sections = append(sections, banner...)
	sections = append(sections, m.styles.Header.Render(m.anchor.Format("2006")))

	perRow := 4
	if m.width < 4*23 {
		perRow = 3
	}

	for rowStart := 0; rowStart < 12; rowStart += perRow {
		var blocks []string
		for i := rowStart; i < rowStart+perRow && i < 12; i++ {
			blocks = append(blocks, m.renderMiniMonth(months[i]))
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderMiniMonth(mm calendar.MiniMonth) string {
	var lines []string
	lines = append(lines, m.styles.WeekDay.Render(padRight(mm.Month.String(), 21)))
	lines = append(lines, m.styles.Dim.Render("Su Mo Tu We Th Fr Sa"))

	for week := 0; week < 6; week++ {
		var row strings.Builder
		for d := 0; d < 7; d++ {
			cell := mm.Cells[week*7+d]
			if cell.Date.IsZero() {
				row.WriteString("  ")
			} else {
				label := fmt.Sprintf("%2d", cell.Date.Day())
				switch {
				case calendar.SameDay(cell.Date, m.now):
					label = m.styles.Today.Render(label)
				case calendar.SameDay(cell.Date, m.anchor):
					label = m.styles.Selected.Render(label)
				default:
					label = m.styles.Normal.Render(label)
				}
				row.WriteString(label)
			}
			if d < 6 {
				row.WriteString(" ")
			}
		}
		lines = append(lines, row.String())
	}
	lines = append(lines, "")

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + " "
}

func (m *Model) renderHourLabel(hour int) string {
	label := fmt.Sprintf("%02d:00", hour)
	style := m.styles.Dim
	if m.isNowRow(hour) {
		style = m.styles.NowLine
	}
	return padRight(style.Render(label), hourLabelWidth)
}

// isNowRow marks the hour row containing the clock reference, the "now"
// indicator line of day/week views.
func (m *Model) isNowRow(hour int) bool {
	return hour == m.now.Hour()
}

func (m *Model) renderAllDayCell(col calendar.DayColumn, width, x, y int) string {
	lane := calendar.AllDayLane(col)
	if len(lane) == 0 {
		return strings.Repeat(" ", width)
	}

	event := lane[0]
	m.addHit(x, y, width-1, 1, event.ID)

	label := event.Title
	if len(lane) > 1 {
		label = fmt.Sprintf("%s +%d", label, len(lane)-1)
	}
	return padRight(m.styles.eventStyle(event.Color).Render(clip(label, width-1)), width)
}

// renderHourCell draws one hour of one day column. Overlapping blocks are
// split into sub-columns so each keeps its own hit region; only the first
// segment of a block carries its title, continuations render as a bare bar.
func (m *Model) renderHourCell(blocks []calendar.Block, numCols, hour, width, x, y int, isToday bool) string {
	subW := width / numCols
	if subW < 2 {
		subW = 2
	}

	// The now indicator: a dashed line through the current hour of today's
	// column, drawn only where no meeting block sits.
	blank := strings.Repeat(" ", subW)
	if isToday && m.isNowRow(hour) {
		blank = m.styles.Dim.Render(strings.Repeat("╌", subW))
	}

	var cell strings.Builder
	used := 0
	for c := 0; c < numCols && used+subW <= width; c++ {
		seg, block, ok := segmentAt(blocks, c, hour)
		if !ok {
			cell.WriteString(blank)
			used += subW
			continue
		}

		m.addHit(x+used, y, subW, 1, block.Event.ID)

		style := m.styles.eventStyle(block.Event.Color)
		if m.tooltip.Mode() != calendar.TooltipNone && m.tooltip.EventID() == block.Event.ID {
			style = style.Reverse(true)
		}

		var text string
		if seg.First {
			text = "▍" + clip(block.Event.Title, subW-2)
		} else {
			text = "▍"
		}
		cell.WriteString(padRight(style.Render(text), subW))
		used += subW
	}
	if used < width {
		cell.WriteString(strings.Repeat(" ", width-used))
	}
	return cell.String()
}

func segmentAt(blocks []calendar.Block, column, hour int) (calendar.Segment, calendar.Block, bool) {
	for _, block := range blocks {
		if block.Column != column {
			continue
		}
		for _, seg := range block.Segments {
			if seg.Hour == hour {
				return seg, block, true
			}
		}
	}
	return calendar.Segment{}, calendar.Block{}, false
}

func columnCount(blocks []calendar.Block) int {
	n := 1
	for _, block := range blocks {
		if block.Column+1 > n {
			n = block.Column + 1
		}
	}
	return n
}

func (m *Model) appendBanner(lines []string) []string {
	if m.loadErr != "" {
		return append(lines, m.styles.ErrBanner.Render(clip(m.loadErr, m.width-2)))
	}
	return lines
}

// renderTooltip renders the meeting detail popover shown on hover or pin.
func (m *Model) renderTooltip(event calendar.Event) string {
	const boxWidth = 38
	inner := boxWidth - 4

	var lines []string
	title := m.styles.eventStyle(event.Color).Bold(true).Render(clip(event.Title, inner))
	lines = append(lines, title)
	lines = append(lines, m.styles.Normal.Render(
		fmt.Sprintf("%s  %s", event.Start.Format(m.cfg.DateFormat), fmtTimeRange(event, m.cfg.TimeFormat))))

	addField := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, m.styles.Dim.Render(label+": ")+m.styles.Normal.Render(clip(value, inner-len(label)-2)))
	}

	room := event.MeetingRoom
	if event.Building != "" {
		room = strings.TrimSpace(room + " " + event.Building)
	}
	if event.Floor != "" {
		room = strings.TrimSpace(room + " fl." + event.Floor)
	}
	addField("Room", room)
	addField("Location", event.Location)
	addField("Organizer", event.Organizer)
	addField("Host", event.Host)
	if len(event.Attendees) > 0 {
		addField("Attendees", strings.Join(event.Attendees, ", "))
	}

	if event.Description != "" {
		lines = append(lines, "")
		for _, l := range strings.Split(wordwrap.String(event.Description, inner), "\n") {
			lines = append(lines, m.styles.Normal.Render(l))
		}
	}

	if m.tooltip.Mode() == calendar.TooltipPinned {
		lines = append(lines, "")
		hint := "e edit · x delete · esc close"
		if m.pendingDelete == event.ID {
			hint = "x confirm delete · esc cancel"
		}
		lines = append(lines, m.styles.Help.Render(hint))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return m.styles.Border.Width(boxWidth - 2).Render(content)
}

func (m *Model) viewHelp() string {
	help := []string{
		m.styles.Header.Render("imeetcal help"),
		"",
		m.styles.Normal.Render("Views:"),
		m.styles.Help.Render("  1/d     - Day view"),
		m.styles.Help.Render("  2/w     - Week view"),
		m.styles.Help.Render("  3/m     - Month view"),
		m.styles.Help.Render("  4/y     - Year view"),
		m.styles.Help.Render("  enter   - Drill down from year to month"),
		"",
		m.styles.Normal.Render("Navigation:"),
		m.styles.Help.Render("  h/l/←/→ - Previous/next day, week, month or year"),
		m.styles.Help.Render("  j/k/↓/↑ - Scroll hours (day/week), move week (month)"),
		m.styles.Help.Render("  t       - Jump to today"),
		"",
		m.styles.Normal.Render("Meetings:"),
		m.styles.Help.Render("  hover   - Peek at a meeting"),
		m.styles.Help.Render("  click   - Pin/unpin its details"),
		m.styles.Help.Render("  n       - New meeting"),
		m.styles.Help.Render("  e       - Edit the pinned meeting (web client)"),
		m.styles.Help.Render("  x       - Delete the pinned meeting"),
		m.styles.Help.Render("  r       - Refresh"),
		"",
		m.styles.Help.Render("  ?       - Toggle help, q - quit"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, help...)
}

func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf(" %s | %s | meetings: %d",
		m.anchor.Format(m.cfg.DateFormat), m.granularity, len(m.events))
	if m.loading {
		left += " | loading…"
	}

	right := "n:new  r:refresh  ?:help  q:quit"
	if m.message != "" {
		right = m.styles.Message.Render(m.message)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return m.styles.Help.Render(left + strings.Repeat(" ", gap) + right)
}

func weekdayName(d int) string {
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	return names[d%7]
}
