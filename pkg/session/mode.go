package session

import (
	"errors"
	"fmt"
)

// ErrInvalidMode is returned when switching to a mode that does not exist.
var ErrInvalidMode = errors.New("invalid mode")

// Mode is the interaction mode of the image panel.
type Mode int

const (
	// View pans and zooms the image.
	View Mode = iota
	// Crop positions, resizes and commits the crop box.
	Crop
)

func (m Mode) String() string {
	switch m {
	case View:
		return "view"
	case Crop:
		return "crop"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a mode shortcut key to its mode.
func ParseMode(key rune) (Mode, error) {
	switch key {
	case 'v', 'V':
		return View, nil
	case 'c', 'C':
		return Crop, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, key)
	}
}

// Event is a pointer event in view coordinates. Delta is the wheel delta for
// scroll events; positive values scroll up.
type Event struct {
	X, Y  float64
	Delta float64
}

// Handlers is the set of pointer handlers bound while a mode is active. Nil
// handlers ignore their event.
type Handlers struct {
	Press          func(Event)
	Drag           func(Event)
	Move           func(Event)
	Scroll         func(Event)
	SecondaryPress func(Event)
}

// State describes one mode: the handlers bound on entry, the pointer cursor
// and optional entry and exit actions.
type State struct {
	Handlers Handlers
	Cursor   string
	OnEnter  func()
	OnExit   func()
}

// Machine switches between modes, binding exactly one handler set at a time.
type Machine struct {
	states  map[Mode]State
	current Mode
	bound   Handlers
	entered bool
}

// NewMachine creates a machine and enters initial.
func NewMachine(initial Mode, states map[Mode]State) (*Machine, error) {
	m := &Machine{states: states}
	if err := m.Switch(initial); err != nil {
		return nil, err
	}
	return m, nil
}

// Switch leaves the current mode and enters mode. The current mode is kept
// when mode is unknown.
func (m *Machine) Switch(mode Mode) error {
	next, ok := m.states[mode]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
	if m.entered {
		if exit := m.states[m.current].OnExit; exit != nil {
			exit()
		}
	}
	m.current = mode
	m.bound = next.Handlers
	m.entered = true
	if next.OnEnter != nil {
		next.OnEnter()
	}
	return nil
}

// Mode returns the active mode.
func (m *Machine) Mode() Mode {
	return m.current
}

// Cursor returns the pointer cursor of the active mode.
func (m *Machine) Cursor() string {
	return m.states[m.current].Cursor
}

func dispatch(h func(Event), e Event) {
	if h != nil {
		h(e)
	}
}

// Press dispatches a primary button press.
func (m *Machine) Press(e Event) { dispatch(m.bound.Press, e) }

// Drag dispatches pointer motion with the primary button held.
func (m *Machine) Drag(e Event) { dispatch(m.bound.Drag, e) }

// Move dispatches pointer motion without buttons held.
func (m *Machine) Move(e Event) { dispatch(m.bound.Move, e) }

// Scroll dispatches a wheel event.
func (m *Machine) Scroll(e Event) { dispatch(m.bound.Scroll, e) }

// SecondaryPress dispatches a secondary button press.
func (m *Machine) SecondaryPress(e Event) { dispatch(m.bound.SecondaryPress, e) }
