package overlay

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/zones"
)

type recordingSurface struct {
	mu       sync.Mutex
	calls    []string
	pointers int
	showErr  error
	// failShows makes that many leading Show calls fail.
	failShows int
}

func (s *recordingSurface) Show(label string, _ *zones.Layout, _ platform.Rect, _ float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "show "+label)
	if s.failShows > 0 {
		s.failShows--
		return errors.New("map failed")
	}
	return s.showErr
}

func (s *recordingSurface) Hide(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "hide "+label)
	return nil
}

func (s *recordingSurface) UpdatePointer(string, float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointers++
}

func (s *recordingSurface) snapshot() ([]string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...), s.pointers
}

var screen0 = platform.Rect{Width: 1920, Height: 1080}

func at(index int) Resolver {
	return func() (Request, error) {
		return Request{Screen: screen0, Index: index, Opacity: 0.3}, nil
	}
}

func TestCoordinator_ShowIsNoopWhenSameOverlayVisible(t *testing.T) {
	surf := &recordingSurface{}
	c := NewCoordinator(surf, nil)

	c.Show(at(0))
	c.Wait()
	c.Show(at(0))
	c.Wait()

	calls, _ := surf.snapshot()
	if len(calls) != 1 || calls[0] != "show zone-overlay-0" {
		t.Fatalf("expected a single show, got %v", calls)
	}
	if !c.Visible() {
		t.Fatalf("expected overlay visible")
	}
}

func TestCoordinator_ShowOnOtherMonitorReplaces(t *testing.T) {
	surf := &recordingSurface{}
	c := NewCoordinator(surf, nil)

	c.Show(at(0))
	c.Wait()
	c.Show(at(1))
	c.Wait()

	calls, _ := surf.snapshot()
	want := []string{"show zone-overlay-0", "hide zone-overlay-0", "show zone-overlay-1"}
	if len(calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, calls)
		}
	}
}

func TestCoordinator_HideWhenNothingVisible(t *testing.T) {
	surf := &recordingSurface{}
	c := NewCoordinator(surf, nil)

	c.Hide()
	c.Wait()

	if calls, _ := surf.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no surface calls, got %v", calls)
	}
}

func TestCoordinator_LaterHideWins(t *testing.T) {
	for i := 0; i < 50; i++ {
		surf := &recordingSurface{}
		c := NewCoordinator(surf, nil)

		c.Show(at(0))
		c.Hide()
		c.Wait()

		if c.Visible() {
			t.Fatalf("iteration %d: overlay left visible after show+hide", i)
		}
	}
}

func TestCoordinator_FailedShowStaysHidden(t *testing.T) {
	surf := &recordingSurface{showErr: errors.New("no compositor")}
	c := NewCoordinator(surf, nil)

	c.Show(at(0))
	c.Wait()
	if c.Visible() {
		t.Fatalf("overlay must not be marked visible after a failed show")
	}
}

func TestCoordinator_UpdatePointerNeedsOverlay(t *testing.T) {
	surf := &recordingSurface{}
	c := NewCoordinator(surf, nil)

	c.UpdatePointer(10, 10)
	if _, n := surf.snapshot(); n != 0 {
		t.Fatalf("expected no pointer forwarding before any overlay, got %d", n)
	}

	c.Show(at(0))
	c.Wait()
	c.Hide()
	c.Wait()
	c.UpdatePointer(20, 20)
	if _, n := surf.snapshot(); n != 1 {
		t.Fatalf("expected pointer forwarded to hidden overlay, got %d", n)
	}
}

func TestCoordinator_ShowRetriesAfterFailure(t *testing.T) {
	surf := &recordingSurface{failShows: 1}
	c := NewCoordinator(surf, nil)

	c.Show(at(0))
	c.Wait()
	if c.Visible() {
		t.Fatalf("overlay must stay hidden after the first show failed")
	}

	c.Show(at(0))
	c.Wait()
	if !c.Visible() {
		t.Fatalf("expected the second show to succeed")
	}
	calls, _ := surf.snapshot()
	if len(calls) != 2 {
		t.Fatalf("expected two surface shows, got %v", calls)
	}
}

func TestCoordinator_ResolverRunsOffCaller(t *testing.T) {
	surf := &recordingSurface{}
	c := NewCoordinator(surf, nil)

	var resolves atomic.Int32
	release := make(chan struct{})
	resolve := func() (Request, error) {
		<-release
		resolves.Add(1)
		return Request{Screen: screen0, Index: 2, Opacity: 0.3}, nil
	}

	// Show returns while the resolver is still blocked.
	c.Show(resolve)
	if n := resolves.Load(); n != 0 {
		t.Fatalf("resolver ran on the caller's goroutine")
	}
	close(release)
	c.Wait()

	c.Show(resolve)
	c.Wait()

	if n := resolves.Load(); n != 2 {
		t.Fatalf("expected two resolves, got %d", n)
	}
	calls, _ := surf.snapshot()
	if len(calls) != 1 || calls[0] != "show zone-overlay-2" {
		t.Fatalf("expected a single show on monitor 2, got %v", calls)
	}
}

func TestCoordinator_FailedResolveStaysHidden(t *testing.T) {
	surf := &recordingSurface{}
	c := NewCoordinator(surf, nil)

	c.Show(func() (Request, error) { return Request{}, platform.ErrNotFound })
	c.Wait()

	if c.Visible() {
		t.Fatalf("overlay must not be visible when the request could not be resolved")
	}
	if calls, _ := surf.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no surface calls, got %v", calls)
	}
}
