// Package input turns discrete navigation events into ranking operations and
// tracks the single focused item of the ranking view.
//
// Keyboard and pointer paths both end in Engine.Move or Engine.Demote; this
// package never touches positions itself.
package input

import "github.com/jask/valuesort/internal/catalog"

// Engine is the subset of ranking.State the machine drives.
type Engine interface {
	Len() int
	EntityAt(i int) (catalog.Entity, bool)
	Move(from, to int) bool
	Demote(id string) bool
}

// Event is a rank-navigation event.
type Event int

const (
	CursorUp   Event = iota + 1 // move focus up
	CursorDown                  // move focus down
	MoveUp                      // up with modifier: swap with the item above
	MoveDown                    // down with modifier: swap with the item below
	ShiftLeft                   // raise one place
	ShiftRight                  // lower one place
	Delete                      // demote the focused item
	Escape                      // drop focus
	Select                      // report the focused item, no state change
)

var eventNames = map[Event]string{
	CursorUp:   "cursor-up",
	CursorDown: "cursor-down",
	MoveUp:     "move-up",
	MoveDown:   "move-down",
	ShiftLeft:  "shift-left",
	ShiftRight: "shift-right",
	Delete:     "delete",
	Escape:     "escape",
	Select:     "select",
}

func (e Event) String() string {
	if s, ok := eventNames[e]; ok {
		return s
	}
	return "unknown"
}

// Result reports what handling an event did.
type Result struct {
	// Changed is true when the engine state was mutated.
	Changed bool
	// Entity is the item the event acted on, when there was one.
	Entity *catalog.Entity
	// From and To are ranking indexes for moves.
	From, To int
}

// Machine is the focus cursor. The zero value is Idle.
type Machine struct {
	focused bool
	index   int
}

// Focused returns the focused index, or false when Idle.
func (m *Machine) Focused() (int, bool) {
	return m.index, m.focused
}

// Idle reports whether nothing is focused.
func (m *Machine) Idle() bool { return !m.focused }

// Focus moves the cursor to j (pointer click or tab focus), clamped into the
// ranking. On an empty ranking the cursor becomes Idle.
func (m *Machine) Focus(j, k int) {
	if k <= 0 {
		m.Blur()
		return
	}
	m.focused = true
	m.index = clamp(j, 0, k-1)
}

// Blur returns to Idle.
func (m *Machine) Blur() {
	m.focused = false
	m.index = 0
}

// Clamp keeps the cursor valid after the ranking changed size outside the
// machine (promote, import, reset).
func (m *Machine) Clamp(k int) {
	if !m.focused {
		return
	}
	m.Focus(m.index, k)
}

// Handle applies ev. Events while Idle are ignored. After a move the cursor
// follows the moved item.
func (m *Machine) Handle(ev Event, eng Engine) Result {
	if !m.focused {
		return Result{}
	}
	k := eng.Len()
	if k == 0 {
		m.Blur()
		return Result{}
	}
	i := clamp(m.index, 0, k-1)
	m.index = i

	switch ev {
	case CursorUp:
		m.index = clamp(i-1, 0, k-1)
	case CursorDown:
		m.index = clamp(i+1, 0, k-1)
	case MoveUp, ShiftLeft:
		return m.move(eng, i, i-1, k)
	case MoveDown, ShiftRight:
		return m.move(eng, i, i+1, k)
	case Delete:
		e, ok := eng.EntityAt(i)
		if !ok || !eng.Demote(e.ID) {
			return Result{}
		}
		switch {
		case i > 0:
			m.index = i - 1
		case k-1 == 0:
			m.Blur()
		default:
			m.index = 0
		}
		return Result{Changed: true, Entity: &e, From: i, To: -1}
	case Escape:
		m.Blur()
	case Select:
		if e, ok := eng.EntityAt(i); ok {
			return Result{Entity: &e, From: i, To: i}
		}
	}
	return Result{}
}

func (m *Machine) move(eng Engine, from, to, k int) Result {
	if to < 0 || to >= k {
		return Result{}
	}
	e, _ := eng.EntityAt(from)
	if !eng.Move(from, to) {
		return Result{}
	}
	m.index = to
	return Result{Changed: true, Entity: &e, From: from, To: to}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
