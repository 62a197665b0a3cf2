// Package drag turns global input into drag-to-zone snapping.
package drag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/snapzone/internal/input"
	"github.com/1broseidon/snapzone/internal/layout"
	"github.com/1broseidon/snapzone/internal/modifier"
	"github.com/1broseidon/snapzone/internal/overlay"
	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/screen"
	"github.com/1broseidon/snapzone/internal/zones"
)

// Settings is read on every event so reloads take effect mid-session.
type Settings interface {
	DragModifier() (modifier.Key, bool)
	ShowDragOverlay() bool
	OverlayOpacity() float64
	DropDelay() time.Duration
}

// Overlay is the preview coordinator. Show resolves its request off the
// caller's goroutine; Visible reports what the surface actually shows.
type Overlay interface {
	Show(resolve overlay.Resolver)
	Hide()
	UpdatePointer(x, y float64)
	Visible() bool
}

// Snapper commits a zone placement and exposes the active layout.
type Snapper interface {
	ApplyToWindow(ctx context.Context, id platform.WindowID, action layout.Action) (platform.Rect, error)
	ActiveLayout() (*zones.Layout, error)
}

// Point is a pointer position in desktop coordinates.
type Point struct {
	X, Y float64
}

// Session is the state of the drag in progress. Only the goroutine running
// Engine.Run touches it.
type Session struct {
	Active       bool
	Window       platform.WindowID
	ModifierSeen bool
	// OverlayVisible is filled from the overlay by Engine.Session.
	OverlayVisible bool
	LastPointer    Point
}

// Engine is the drag state machine. It owns the session and the modifier
// tracker; nothing else mutates them.
type Engine struct {
	backend  platform.Backend
	screens  *screen.Resolver
	overlay  Overlay
	snapper  Snapper
	settings Settings
	logger   *slog.Logger

	tracker *modifier.Tracker
	session Session
	// showRequested is set between a Show and the next Hide, so a show
	// still in flight is hidden too.
	showRequested bool

	drops sync.WaitGroup
}

// NewEngine wires the state machine. A nil logger discards output.
func NewEngine(backend platform.Backend, screens *screen.Resolver, preview Overlay, snapper Snapper, settings Settings, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		backend:  backend,
		screens:  screens,
		overlay:  preview,
		snapper:  snapper,
		settings: settings,
		logger:   logger,
		tracker:  modifier.NewTracker(),
	}
}

// Run consumes events until ctx is cancelled or the channel closes, then
// waits for scheduled drops to finish.
func (e *Engine) Run(ctx context.Context, events <-chan input.Event) error {
	defer e.drops.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			e.Handle(ctx, ev)
		}
	}
}

// Handle processes one event. Exposed for callers that drive the engine
// from their own loop.
func (e *Engine) Handle(ctx context.Context, ev input.Event) {
	switch ev.Kind {
	case input.KeyDown, input.KeyUp:
		if ev.Key.Logical() == modifier.None {
			return
		}
		e.tracker.OnKeyEvent(ev.Kind == input.KeyDown, ev.Key)
		if e.session.Active {
			e.recheck()
		}

	case input.ButtonDown:
		if e.session.Active || !e.enabled() {
			return
		}
		e.begin(Point{X: ev.X, Y: ev.Y})

	case input.Move:
		if !e.session.Active {
			return
		}
		e.session.LastPointer = Point{X: ev.X, Y: ev.Y}
		e.overlay.UpdatePointer(ev.X, ev.Y)
		if err := e.backend.Raise(e.session.Window); err != nil {
			e.logger.Debug("raise failed", "window", e.session.Window, "error", err)
		}
		e.recheck()

	case input.ButtonUp:
		if !e.session.Active {
			return
		}
		e.end(ctx)
	}
}

// Session returns a copy of the current session.
func (e *Engine) Session() Session {
	s := e.session
	s.OverlayVisible = e.overlay.Visible()
	return s
}

// WaitDrops blocks until every scheduled drop has run.
func (e *Engine) WaitDrops() {
	e.drops.Wait()
}

func (e *Engine) enabled() bool {
	k, ok := e.settings.DragModifier()
	return ok && k != modifier.None
}

func (e *Engine) begin(at Point) {
	win, err := e.backend.FrontmostWindow()
	if err != nil {
		if !errors.Is(err, platform.ErrNotFound) {
			e.logger.Debug("frontmost window lookup failed", "error", err)
		}
		return
	}

	e.session = Session{Active: true, Window: win, LastPointer: at}
	if err := e.backend.Raise(win); err != nil {
		e.logger.Debug("raise failed", "window", win, "error", err)
	}
	e.recheck()
}

func (e *Engine) recheck() {
	key, ok := e.settings.DragModifier()
	pressed := ok && e.tracker.IsPressed(key)
	if pressed {
		e.session.ModifierSeen = true
	}

	visible := e.overlay.Visible()
	switch {
	case pressed && e.settings.ShowDragOverlay():
		if !visible {
			e.overlay.Show(e.overlayRequest(e.session.Window))
			e.showRequested = true
		}
	case visible || e.showRequested:
		e.overlay.Hide()
		e.showRequested = false
	}
}

// overlayRequest captures win and the current opacity; the lookups run
// when the coordinator calls it.
func (e *Engine) overlayRequest(win platform.WindowID) overlay.Resolver {
	opacity := e.settings.OverlayOpacity()
	return func() (overlay.Request, error) {
		rect, err := e.backend.WindowRect(win)
		if err != nil {
			return overlay.Request{}, fmt.Errorf("window %d rect: %w", win, err)
		}
		scr, idx, err := e.screens.BestScreenForRect(rect)
		if err != nil {
			return overlay.Request{}, fmt.Errorf("screen for window %d: %w", win, err)
		}
		active, err := e.snapper.ActiveLayout()
		if err != nil {
			e.logger.Warn("active zone layout unavailable", "error", err)
		}
		return overlay.Request{Layout: active, Screen: scr, Index: idx, Opacity: opacity}, nil
	}
}

func (e *Engine) end(ctx context.Context) {
	seen := e.session.ModifierSeen
	win := e.session.Window
	at := e.session.LastPointer

	e.overlay.Hide()
	e.showRequested = false
	e.session = Session{}

	if !seen {
		return
	}

	delay := e.settings.DropDelay()
	e.drops.Add(1)
	go func() {
		defer e.drops.Done()
		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
		}
		e.drop(ctx, win, at)
	}()
}

// drop snaps win into the zone under the pointer on the screen that holds
// the window.
func (e *Engine) drop(ctx context.Context, win platform.WindowID, at Point) {
	active, err := e.snapper.ActiveLayout()
	if err != nil {
		e.logger.Warn("active zone layout unavailable", "error", err)
		return
	}
	if active == nil {
		return
	}

	rect, err := e.backend.WindowRect(win)
	if err != nil {
		e.logger.Debug("window rect lookup failed", "window", win, "error", err)
		return
	}
	scr, _, err := e.screens.BestScreenForRect(rect)
	if err != nil {
		e.logger.Debug("screen lookup failed", "error", err)
		return
	}

	zone, ok := active.ZoneAt(scr, int(at.X), int(at.Y))
	if !ok {
		return
	}
	target, err := e.snapper.ApplyToWindow(ctx, win, layout.Zone(zone.Number))
	if err != nil {
		e.logger.Warn("zone drop failed", "window", win, "zone", zone.Number, "error", err)
		return
	}
	e.logger.Info("snapped window to zone", "window", win, "zone", zone.Number, "layout", active.ID, "target", target)
}
