package calendar

// TooltipMode enumerates the three tooltip states. Exactly one holds at a
// time; the invariants live in the Tooltip transition methods rather than in
// independently settable flags.
type TooltipMode int

const (
	TooltipNone TooltipMode = iota
	TooltipHovering
	TooltipPinned
)

// Position is a point in viewport cell space.
type Position struct {
	X int
	Y int
}

// Size is a width/height pair in viewport cells.
type Size struct {
	Width  int
	Height int
}

// Tooltip is the hover/pin state machine for the meeting detail popover.
//
//	none     --enter(e)-->              hovering(e)
//	hovering --leave-->                 none
//	hovering --enter(e2)-->             hovering(e2)
//	any      --click(e)-->              pinned(e)
//	pinned(e) --click(e)-->             none        (toggle)
//	pinned(e) --click(e2)-->            pinned(e2)  (re-pin)
//	pinned   --clickOutside-->          none
//
// While pinned, enter/leave are no-ops: the pin suppresses hover updates
// until it is cleared.
type Tooltip struct {
	mode    TooltipMode
	eventID string
	pos     Position
}

func (t *Tooltip) Mode() TooltipMode { return t.mode }
func (t *Tooltip) EventID() string   { return t.eventID }
func (t *Tooltip) Pos() Position     { return t.pos }

// Enter handles the pointer moving onto an event.
func (t *Tooltip) Enter(eventID string, pos Position) {
	if t.mode == TooltipPinned {
		return
	}
	t.mode = TooltipHovering
	t.eventID = eventID
	t.pos = pos
}

// Leave handles the pointer moving off the hovered event.
func (t *Tooltip) Leave() {
	if t.mode != TooltipHovering {
		return
	}
	t.reset()
}

// Click handles a click on an event: pin it, toggle off if it is already
// the pinned one, or re-pin from another event.
func (t *Tooltip) Click(eventID string, pos Position) {
	if t.mode == TooltipPinned && t.eventID == eventID {
		t.reset()
		return
	}
	t.mode = TooltipPinned
	t.eventID = eventID
	t.pos = pos
}

// ClickOutside dismisses any pinned or hovered popover.
func (t *Tooltip) ClickOutside() {
	t.reset()
}

// Clear unconditionally drops the state, used when the underlying event
// batch is replaced and IDs are no longer guaranteed stable.
func (t *Tooltip) Clear() {
	t.reset()
}

func (t *Tooltip) reset() {
	t.mode = TooltipNone
	t.eventID = ""
	t.pos = Position{}
}

// PlaceMargin is the minimum gap kept between the popover and the viewport
// edge before flipping.
const PlaceMargin = 1

// Place positions the popover at the pointer, flipping to the pointer's
// left/top when it would overflow the viewport edge minus a margin. Pure
// function of its inputs; callers recompute it on every show.
func Place(pointer Position, tip Size, viewport Size) Position {
	pos := Position{X: pointer.X + 1, Y: pointer.Y + 1}

	if pos.X+tip.Width > viewport.Width-PlaceMargin {
		pos.X = pointer.X - tip.Width
	}
	if pos.Y+tip.Height > viewport.Height-PlaceMargin {
		pos.Y = pointer.Y - tip.Height
	}

	if pos.X < 0 {
		pos.X = 0
	}
	if pos.Y < 0 {
		pos.Y = 0
	}
	return pos
}
