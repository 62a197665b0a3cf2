// Package zones holds user-defined zone layouts and their JSON store.
package zones

import (
	"fmt"
	"strings"

	"github.com/1broseidon/snapzone/internal/platform"
)

// Zone is a screen region in percent of the screen's width and height.
type Zone struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Number uint32  `json:"number"`
}

// Layout is an ordered list of zones. Zone numbers are not required to be
// unique; lookups take the first match.
type Layout struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Zones        []Zone  `json:"zones"`
	ScreenWidth  *uint32 `json:"screenWidth,omitempty"`
	ScreenHeight *uint32 `json:"screenHeight,omitempty"`
}

// Abs converts the zone to absolute pixels within scr. Offsets are relative
// to scr's origin.
func (z Zone) Abs(scr platform.Rect) platform.Rect {
	w := float64(scr.Width)
	h := float64(scr.Height)
	return platform.Rect{
		X:      int(z.X / 100 * w),
		Y:      int(z.Y / 100 * h),
		Width:  int(z.Width / 100 * w),
		Height: int(z.Height / 100 * h),
	}
}

// ByNumber returns the first zone numbered n.
func (l *Layout) ByNumber(n uint32) (Zone, bool) {
	if l == nil {
		return Zone{}, false
	}
	for _, z := range l.Zones {
		if z.Number == n {
			return z, true
		}
	}
	return Zone{}, false
}

// ZoneAt returns the first zone whose absolute box contains the point.
// Bounds are inclusive on every edge.
func (l *Layout) ZoneAt(scr platform.Rect, x, y int) (Zone, bool) {
	if l == nil {
		return Zone{}, false
	}
	lx := float64(x - scr.X)
	ly := float64(y - scr.Y)
	w := float64(scr.Width)
	h := float64(scr.Height)
	for _, z := range l.Zones {
		x1 := z.X / 100 * w
		y1 := z.Y / 100 * h
		x2 := x1 + z.Width/100*w
		y2 := y1 + z.Height/100*h
		if lx >= x1 && lx <= x2 && ly >= y1 && ly <= y2 {
			return z, true
		}
	}
	return Zone{}, false
}

// Validate checks ids and percent ranges.
func (l *Layout) Validate() error {
	if l == nil {
		return fmt.Errorf("layout is nil")
	}
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("layout id is required")
	}
	for i, z := range l.Zones {
		if z.Width <= 0 || z.Height <= 0 {
			return fmt.Errorf("zone %d: width and height must be positive", i)
		}
		if z.X < 0 || z.Y < 0 || z.X+z.Width > 100.0001 || z.Y+z.Height > 100.0001 {
			return fmt.Errorf("zone %d: box %.2f,%.2f %.2fx%.2f leaves the screen", i, z.X, z.Y, z.Width, z.Height)
		}
	}
	return nil
}
