// Package input normalizes global pointer and keyboard activity into a
// single event stream.
package input

import (
	"context"

	"github.com/1broseidon/snapzone/internal/modifier"
)

// Kind classifies a raw input event.
type Kind int

const (
	ButtonDown Kind = iota
	ButtonUp
	Move
	KeyDown
	KeyUp
)

func (k Kind) String() string {
	switch k {
	case ButtonDown:
		return "button-down"
	case ButtonUp:
		return "button-up"
	case Move:
		return "move"
	case KeyDown:
		return "key-down"
	case KeyUp:
		return "key-up"
	default:
		return "unknown"
	}
}

// Event is one normalized input event. X and Y are absolute desktop
// coordinates for pointer events; Key is set for key events.
type Event struct {
	Kind Kind
	X, Y float64
	Key  modifier.Physical
}

// Source produces the global event stream. A source cannot be restarted
// once its context is cancelled.
type Source interface {
	Start(ctx context.Context) (<-chan Event, error)
}
