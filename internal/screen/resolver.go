// Package screen maps window rects onto the monitors that hold them.
package screen

import (
	"fmt"

	"github.com/1broseidon/snapzone/internal/platform"
)

// DisplaySource lists the physical displays. platform.Backend satisfies it.
type DisplaySource interface {
	Displays() ([]platform.Display, error)
}

// Resolver answers screen lookups against the live display list. Screens
// are the usable areas of each display, ordered by display ID.
type Resolver struct {
	src DisplaySource
}

// NewResolver creates a resolver over src.
func NewResolver(src DisplaySource) *Resolver {
	return &Resolver{src: src}
}

// AllScreens returns the usable area of every display.
func (r *Resolver) AllScreens() ([]platform.Rect, error) {
	displays, err := r.src.Displays()
	if err != nil {
		return nil, err
	}
	screens := make([]platform.Rect, 0, len(displays))
	for _, d := range displays {
		usable := d.Usable
		if usable.Area() == 0 {
			usable = d.Bounds
		}
		screens = append(screens, usable)
	}
	return screens, nil
}

// BestScreenForRect returns the screen covering the largest share of rect
// together with its index.
func (r *Resolver) BestScreenForRect(rect platform.Rect) (platform.Rect, int, error) {
	screens, err := r.AllScreens()
	if err != nil {
		return platform.Rect{}, 0, err
	}
	idx, ok := BestIndex(screens, rect)
	if !ok {
		return platform.Rect{}, 0, fmt.Errorf("no screens: %w", platform.ErrNotFound)
	}
	return screens[idx], idx, nil
}

// IndexOf returns the position of screen in the current screen list, or 0
// when it is not present.
func (r *Resolver) IndexOf(scr platform.Rect) int {
	screens, err := r.AllScreens()
	if err != nil {
		return 0
	}
	for i, s := range screens {
		if s == scr {
			return i
		}
	}
	return 0
}

// BestIndex picks the screen with the highest overlap fraction. Ties and
// zero overlap keep the earliest screen. ok is false for an empty list.
func BestIndex(screens []platform.Rect, rect platform.Rect) (int, bool) {
	if len(screens) == 0 {
		return 0, false
	}
	if len(screens) == 1 {
		return 0, true
	}

	area := rect.Area()
	if area == 0 {
		return 0, true
	}

	best, bestRatio := 0, 0.0
	for i, s := range screens {
		ratio := float64(s.Intersect(rect).Area()) / float64(area)
		if ratio > bestRatio {
			best, bestRatio = i, ratio
		}
	}
	return best, true
}
