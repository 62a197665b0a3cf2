package layout

import (
	"sync"

	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/zones"
)

// Engine turns actions into target rects. It remembers each window's rect
// from the first time it saw that window; placements never overwrite the
// entry, so Restore always returns the pre-snap geometry. History is never
// evicted.
type Engine struct {
	mu      sync.Mutex
	history map[platform.WindowID]platform.Rect
}

// NewEngine returns an engine with empty history.
func NewEngine() *Engine {
	return &Engine{history: make(map[platform.WindowID]platform.Rect)}
}

// Calculate returns the absolute rect for action on scr. current is the
// window's present absolute rect; active may be nil. The result's origin is
// clamped into [0, scr.X+scr.Width] by [0, scr.Y+scr.Height]; size is not.
func (e *Engine) Calculate(id platform.WindowID, action Action, scr, current platform.Rect, active *zones.Layout) platform.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, ok := e.history[id]
	if !ok {
		prev = current
		e.history[id] = current
	}

	local := compute(action, scr, toLocal(current, scr), toLocal(prev, scr), active)

	out := platform.Rect{
		X:      clamp(local.X+scr.X, 0, scr.X+scr.Width),
		Y:      clamp(local.Y+scr.Y, 0, scr.Y+scr.Height),
		Width:  local.Width,
		Height: local.Height,
	}
	return out
}

// History returns the remembered rect for a window.
func (e *Engine) History(id platform.WindowID) (platform.Rect, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.history[id]
	return r, ok
}

func toLocal(r, scr platform.Rect) platform.Rect {
	r.X -= scr.X
	r.Y -= scr.Y
	return r
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// compute works in screen-local coordinates: (0,0) is the screen origin.
func compute(a Action, scr, cur, prev platform.Rect, active *zones.Layout) platform.Rect {
	w, h := scr.Width, scr.Height
	rect := func(x, y, rw, rh int) platform.Rect {
		return platform.Rect{X: x, Y: y, Width: rw, Height: rh}
	}

	switch a.Kind {
	case LeftHalf:
		return rect(0, 0, w/2, h)
	case RightHalf:
		return rect(w/2, 0, w/2, h)
	case CenterHalf:
		return rect(w/4, 0, w/2, h)
	case TopHalf:
		return rect(0, 0, w, h/2)
	case BottomHalf:
		return rect(0, h/2, w, h/2)

	case TopLeft:
		return rect(0, 0, w/2, h/2)
	case TopRight:
		return rect(w/2, 0, w/2, h/2)
	case BottomLeft:
		return rect(0, h/2, w/2, h/2)
	case BottomRight:
		return rect(w/2, h/2, w/2, h/2)

	case FirstThird:
		return rect(0, 0, w/3, h)
	case CenterThird:
		return rect(w/3, 0, w/3, h)
	case LastThird:
		return rect(2*w/3, 0, w/3, h)
	case FirstTwoThirds:
		return rect(0, 0, 2*w/3, h)
	case LastTwoThirds:
		return rect(w/3, 0, 2*w/3, h)

	case FirstFourth:
		return rect(0, 0, w/4, h)
	case SecondFourth:
		return rect(w/4, 0, w/4, h)
	case ThirdFourth:
		return rect(2*w/4, 0, w/4, h)
	case LastFourth:
		return rect(3*w/4, 0, w/4, h)
	case FirstThreeFourths:
		return rect(0, 0, 3*w/4, h)
	case LastThreeFourths:
		return rect(w/4, 0, 3*w/4, h)

	case TopLeftSixth:
		return rect(0, 0, w/3, h/2)
	case TopCenterSixth:
		return rect(w/3, 0, w/3, h/2)
	case TopRightSixth:
		return rect(2*w/3, 0, w/3, h/2)
	case BottomLeftSixth:
		return rect(0, h/2, w/3, h/2)
	case BottomCenterSixth:
		return rect(w/3, h/2, w/3, h/2)
	case BottomRightSixth:
		return rect(2*w/3, h/2, w/3, h/2)

	case TopLeftThird, BottomLeftThird:
		return rect(0, 0, w/3, h)
	case TopRightThird, BottomRightThird:
		return rect(2*w/3, 0, w/3, h)

	case Maximize:
		return rect(0, 0, w, h)
	case MaximizeHeight:
		return rect(cur.X, 0, cur.Width, h)
	case AlmostMaximize:
		return rect(w/100, h/100, 98*w/100, 98*h/100)
	case Center:
		return rect((w-cur.Width)/2, (h-cur.Height)/2, cur.Width, cur.Height)
	case CenterProminently:
		pw, ph := 9*w/10, 9*h/10
		return rect((w-pw)/2, (h-ph)/2, pw, ph)

	case Smaller:
		return rect(cur.X+cur.Width/10, cur.Y+cur.Height/10, 8*cur.Width/10, 8*cur.Height/10)
	case Larger:
		return rect(cur.X-cur.Width/10, cur.Y-cur.Height/10, 12*cur.Width/10, 12*cur.Height/10)
	case MoveLeft:
		return rect(cur.X-cur.Width, cur.Y, cur.Width, cur.Height)
	case MoveRight:
		return rect(cur.X+cur.Width, cur.Y, cur.Width, cur.Height)
	case MoveUp:
		return rect(cur.X, cur.Y-cur.Height, cur.Width, cur.Height)
	case MoveDown:
		return rect(cur.X, cur.Y+cur.Height, cur.Width, cur.Height)

	case Restore:
		return prev

	case ApplyZone:
		z, ok := active.ByNumber(a.ZoneNumber)
		if !ok {
			return cur
		}
		return z.Abs(scr)

	default:
		// NextDisplay, PreviousDisplay and ActivateLayout leave geometry alone.
		return cur
	}
}
