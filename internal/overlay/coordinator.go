// Package overlay serializes zone-preview show/hide requests onto a
// drawing surface.
package overlay

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/zones"
)

// Surface draws the zone preview. Labels identify one overlay per monitor.
type Surface interface {
	Show(label string, layout *zones.Layout, screen platform.Rect, opacity float64) error
	Hide(label string) error
	UpdatePointer(label string, x, y float64)
}

// Label returns the overlay identity for a monitor index.
func Label(index int) string {
	return fmt.Sprintf("zone-overlay-%d", index)
}

// Request describes one preview: the layout to draw on the monitor at
// Index.
type Request struct {
	Layout  *zones.Layout
	Screen  platform.Rect
	Index   int
	Opacity float64
}

// Resolver computes a Request. It runs on the request's background
// goroutine, never on the caller's.
type Resolver func() (Request, error)

// Coordinator owns the single overlay operation lock. Show and Hide run on
// background goroutines and re-check visibility once they hold the lock;
// a request older than the last applied one is dropped, so a Hide issued
// after a Show always wins.
type Coordinator struct {
	surface Surface
	logger  *slog.Logger

	mu      sync.Mutex
	label   string
	applied uint64
	// visible is written only while mu is held.
	visible atomic.Bool

	seqMu sync.Mutex
	seq   uint64

	wg sync.WaitGroup
}

// NewCoordinator wraps surface. A nil logger discards output.
func NewCoordinator(surface Surface, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{surface: surface, logger: logger}
}

func (c *Coordinator) next() uint64 {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	c.seq++
	return c.seq
}

// Show requests the preview described by resolve. It is a no-op when the
// preview for the same monitor is already visible. A failed resolve or
// surface call leaves the overlay hidden, so the next Show tries again.
func (c *Coordinator) Show(resolve Resolver) {
	seq := c.next()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		// Resolve before taking the lock so pointer updates are not held
		// up by window and screen lookups.
		req, err := resolve()

		c.mu.Lock()
		defer c.mu.Unlock()

		if seq < c.applied {
			return
		}
		c.applied = seq
		if err != nil {
			c.logger.Debug("overlay request not resolved", "error", err)
			return
		}

		label := Label(req.Index)
		if c.visible.Load() && c.label == label {
			return
		}
		if c.visible.Load() {
			if err := c.surface.Hide(c.label); err != nil {
				c.logger.Warn("overlay hide failed", "label", c.label, "error", err)
			}
			c.visible.Store(false)
		}
		if err := c.surface.Show(label, req.Layout, req.Screen, req.Opacity); err != nil {
			c.logger.Warn("overlay show failed", "label", label, "error", err)
			return
		}
		c.label = label
		c.visible.Store(true)
	}()
}

// Hide requests that any visible preview is removed.
func (c *Coordinator) Hide() {
	seq := c.next()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.mu.Lock()
		defer c.mu.Unlock()

		if seq < c.applied {
			return
		}
		c.applied = seq
		if !c.visible.Load() {
			return
		}
		if err := c.surface.Hide(c.label); err != nil {
			c.logger.Warn("overlay hide failed", "label", c.label, "error", err)
		}
		c.visible.Store(false)
	}()
}

// UpdatePointer forwards the pointer to the last overlay that was shown,
// whether or not it is currently visible.
func (c *Coordinator) UpdatePointer(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.label == "" {
		return
	}
	c.surface.UpdatePointer(c.label, x, y)
}

// Visible reports whether the surface is currently showing a preview. It
// does not wait for requests in flight.
func (c *Coordinator) Visible() bool {
	return c.visible.Load()
}

// Wait blocks until every dispatched Show and Hide has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
