// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"fmt"
	"sync"

	"github.com/1broseidon/snapzone/internal/platform"
)

// Backend is a scripted window system. The zero value has no windows and
// no displays.
type Backend struct {
	mu        sync.Mutex
	Screens   []platform.Display
	Windows   map[platform.WindowID]platform.Rect
	Frontmost platform.WindowID
	Moves     []Move
	Raises    int
	MoveErr   error
}

// Move records one MoveResize call.
type Move struct {
	Window platform.WindowID
	Rect   platform.Rect
}

var _ platform.Backend = (*Backend)(nil)

// New returns a backend with one display per rect and a single frontmost
// window.
func New(window platform.WindowID, rect platform.Rect, screens ...platform.Rect) *Backend {
	b := &Backend{
		Windows:   map[platform.WindowID]platform.Rect{window: rect},
		Frontmost: window,
	}
	for i, s := range screens {
		b.Screens = append(b.Screens, platform.Display{ID: i, Name: fmt.Sprintf("SCREEN-%d", i), Bounds: s, Usable: s})
	}
	return b
}

func (b *Backend) Displays() ([]platform.Display, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.Display(nil), b.Screens...), nil
}

func (b *Backend) FrontmostWindow() (platform.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Frontmost == 0 {
		return 0, platform.ErrNotFound
	}
	return b.Frontmost, nil
}

func (b *Backend) WindowRect(id platform.WindowID) (platform.Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.Windows[id]
	if !ok {
		return platform.Rect{}, &platform.PlatformError{Op: "get geometry", Window: id, Err: platform.ErrNotFound}
	}
	return r, nil
}

func (b *Backend) MoveResize(id platform.WindowID, r platform.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.MoveErr != nil {
		return &platform.PlatformError{Op: "move/resize", Window: id, Err: b.MoveErr}
	}
	b.Windows[id] = r
	b.Moves = append(b.Moves, Move{Window: id, Rect: r})
	return nil
}

func (b *Backend) Raise(platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Raises++
	return nil
}

// MoveCalls returns a copy of the recorded moves.
func (b *Backend) MoveCalls() []Move {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Move(nil), b.Moves...)
}
