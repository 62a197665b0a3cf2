// Package snap applies layout actions to real windows.
package snap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/snapzone/internal/layout"
	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/screen"
	"github.com/1broseidon/snapzone/internal/zones"
)

// LayoutStore is the zone layout persistence the service reads and, for
// ActivateLayout, writes.
type LayoutStore interface {
	ActiveLayoutID() (string, bool, error)
	Layout(id string) (*zones.Layout, bool, error)
	SetActive(id string) error
}

// Result describes the last applied action.
type Result struct {
	Action  string        `json:"action"`
	Window  uint32        `json:"window,omitempty"`
	Title   string        `json:"title,omitempty"`
	Target  platform.Rect `json:"target"`
	Applied time.Time     `json:"applied"`
}

type titler interface {
	WindowTitle(platform.WindowID) string
}

// Service is the single entry point for hotkeys, IPC, MCP and drag drops.
type Service struct {
	backend platform.Backend
	screens *screen.Resolver
	engine  *layout.Engine
	store   LayoutStore
	logger  *slog.Logger

	mu   sync.Mutex
	last *Result
}

// NewService wires a service. A nil logger discards output.
func NewService(backend platform.Backend, screens *screen.Resolver, engine *layout.Engine, store LayoutStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{backend: backend, screens: screens, engine: engine, store: store, logger: logger}
}

// Apply runs action against the frontmost window.
func (s *Service) Apply(ctx context.Context, action layout.Action) error {
	if action.Kind == layout.ActivateLayout {
		return s.activate(action.LayoutID)
	}

	id, err := s.backend.FrontmostWindow()
	if err != nil {
		return err
	}
	_, err = s.ApplyToWindow(ctx, id, action)
	return err
}

// ApplyToWindow computes and commits the target rect for a specific window.
// ApplyZone fails with platform.ErrNotFound when there is no active layout
// or no zone with that number; the window is left alone.
func (s *Service) ApplyToWindow(ctx context.Context, id platform.WindowID, action layout.Action) (platform.Rect, error) {
	if action.Kind == layout.ActivateLayout {
		return platform.Rect{}, s.activate(action.LayoutID)
	}

	current, err := s.backend.WindowRect(id)
	if err != nil {
		return platform.Rect{}, err
	}
	scr, _, err := s.screens.BestScreenForRect(current)
	if err != nil {
		return platform.Rect{}, err
	}

	var active *zones.Layout
	if action.Kind == layout.ApplyZone {
		active, err = s.ActiveLayout()
		if err != nil {
			return platform.Rect{}, err
		}
		if active == nil {
			return platform.Rect{}, fmt.Errorf("no active zone layout: %w", platform.ErrNotFound)
		}
		if _, ok := active.ByNumber(action.ZoneNumber); !ok {
			return platform.Rect{}, fmt.Errorf("zone %d in layout %q: %w", action.ZoneNumber, active.ID, platform.ErrNotFound)
		}
	}

	target := s.engine.Calculate(id, action, scr, current, active)

	if err := ctx.Err(); err != nil {
		return platform.Rect{}, err
	}
	if target != current {
		if err := s.backend.MoveResize(id, target); err != nil {
			return platform.Rect{}, err
		}
	}

	res := &Result{Action: action.String(), Window: uint32(id), Target: target, Applied: time.Now()}
	if t, ok := s.backend.(titler); ok {
		res.Title = t.WindowTitle(id)
	}
	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	s.logger.Debug("applied action", "action", res.Action, "window", id, "target", target)
	return target, nil
}

// ActiveLayout returns the active zone layout, or nil when none is set.
func (s *Service) ActiveLayout() (*zones.Layout, error) {
	if s.store == nil {
		return nil, nil
	}
	id, ok, err := s.store.ActiveLayoutID()
	if err != nil || !ok {
		return nil, err
	}
	l, found, err := s.store.Layout(id)
	if err != nil || !found {
		return nil, err
	}
	return l, nil
}

// Last returns the most recently applied action, if any.
func (s *Service) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

func (s *Service) activate(id string) error {
	if s.store == nil {
		return errors.New("no zone layout store configured")
	}
	if err := s.store.SetActive(id); err != nil {
		return err
	}
	s.logger.Info("activated zone layout", "layout", id)
	return nil
}
