// Package modifier folds physical modifier key events into logical state.
package modifier

import (
	"fmt"
	"strings"
)

// Key is a logical modifier. Left and right variants collapse into one.
type Key int

const (
	None Key = iota
	Control
	Alt
	Shift
	Super
)

func (k Key) String() string {
	switch k {
	case Control:
		return "control"
	case Alt:
		return "alt"
	case Shift:
		return "shift"
	case Super:
		return "super"
	default:
		return "none"
	}
}

// ParseKey reads a config value. "none" and "" disable the modifier.
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "control", "ctrl":
		return Control, nil
	case "alt", "option":
		return Alt, nil
	case "shift":
		return Shift, nil
	case "super", "meta", "win", "cmd":
		return Super, nil
	default:
		return None, fmt.Errorf("unknown modifier key %q (want control, alt, shift, super or none)", s)
	}
}

// Physical identifies a concrete key on the keyboard.
type Physical int

const (
	OtherKey Physical = iota
	ControlLeft
	ControlRight
	AltLeft
	AltRight
	AltGr
	ShiftLeft
	ShiftRight
	SuperLeft
	SuperRight
)

// Logical maps a physical key onto its modifier, or None.
func (p Physical) Logical() Key {
	switch p {
	case ControlLeft, ControlRight:
		return Control
	case AltLeft, AltRight, AltGr:
		return Alt
	case ShiftLeft, ShiftRight:
		return Shift
	case SuperLeft, SuperRight:
		return Super
	default:
		return None
	}
}

// State is the logical modifier snapshot.
type State struct {
	Control bool
	Alt     bool
	Shift   bool
	Super   bool
}

// Tracker keeps per-physical-key state so releasing one side of a pair
// does not clear the modifier while the other side is still held.
type Tracker struct {
	down map[Physical]bool
}

// NewTracker returns a tracker with nothing pressed.
func NewTracker() *Tracker {
	return &Tracker{down: make(map[Physical]bool)}
}

// OnKeyEvent records a press or release and returns the new state.
// Non-modifier keys leave the state unchanged.
func (t *Tracker) OnKeyEvent(pressed bool, key Physical) State {
	if key.Logical() != None {
		if pressed {
			t.down[key] = true
		} else {
			delete(t.down, key)
		}
	}
	return t.State()
}

// State derives the logical state from the held keys.
func (t *Tracker) State() State {
	var s State
	for p := range t.down {
		switch p.Logical() {
		case Control:
			s.Control = true
		case Alt:
			s.Alt = true
		case Shift:
			s.Shift = true
		case Super:
			s.Super = true
		}
	}
	return s
}

// IsPressed reports whether the logical modifier is held. None is never held.
func (t *Tracker) IsPressed(k Key) bool {
	s := t.State()
	switch k {
	case Control:
		return s.Control
	case Alt:
		return s.Alt
	case Shift:
		return s.Shift
	case Super:
		return s.Super
	default:
		return false
	}
}
