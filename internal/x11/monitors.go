package x11

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is one active RandR CRTC. Usable is Bounds minus the space
// reserved by docks and panels.
type Monitor struct {
	ID     int
	Name   string
	Bounds Box
	Usable Box
}

// Box is an X11 rectangle in root window coordinates.
type Box struct {
	X, Y, W, H int
}

func (b Box) intersect(o Box) Box {
	x1 := max(b.X, o.X)
	y1 := max(b.Y, o.Y)
	x2 := min(b.X+b.W, o.X+o.W)
	y2 := min(b.Y+b.H, o.Y+o.H)
	if x2 <= x1 || y2 <= y1 {
		return Box{}
	}
	return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

func (b Box) empty() bool {
	return b.W <= 0 || b.H <= 0
}

// GetMonitors lists active monitors ordered by CRTC index, each with its
// usable area already computed.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		bounds := Box{X: int(info.X), Y: int(info.Y), W: int(info.Width), H: int(info.Height)}
		monitors = append(monitors, Monitor{ID: i, Name: name, Bounds: bounds, Usable: bounds})
	}

	sort.Slice(monitors, func(i, j int) bool { return monitors[i].ID < monitors[j].ID })

	struts := c.dockStruts()
	for i := range monitors {
		monitors[i].Usable = c.usableArea(monitors[i].Bounds, struts)
	}
	return monitors, nil
}

// usableArea shrinks a monitor by the dock struts that touch it. With no
// struts it falls back to the EWMH work area of the current desktop.
func (c *Connection) usableArea(bounds Box, struts []ewmh.WmStrutPartial) Box {
	rootW, rootH, ok := c.rootSize()
	if ok && len(struts) > 0 {
		var left, right, top, bottom int
		for _, sp := range struts {
			for _, edge := range strutEdges(sp, rootW, rootH) {
				hit := bounds.intersect(edge.box)
				if hit.empty() {
					continue
				}
				switch edge.side {
				case "left":
					left = max(left, hit.W)
				case "right":
					right = max(right, hit.W)
				case "top":
					top = max(top, hit.H)
				case "bottom":
					bottom = max(bottom, hit.H)
				}
			}
		}
		if left+right+top+bottom > 0 {
			return Box{
				X: bounds.X + left,
				Y: bounds.Y + top,
				W: max(1, bounds.W-left-right),
				H: max(1, bounds.H-top-bottom),
			}
		}
	}

	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return bounds
	}
	idx := 0
	if desk, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(desk) < len(areas) {
		idx = int(desk)
	}
	wa := areas[idx]
	clipped := bounds.intersect(Box{X: int(wa.X), Y: int(wa.Y), W: int(wa.Width), H: int(wa.Height)})
	if clipped.empty() {
		return bounds
	}
	return clipped
}

type strutEdge struct {
	side string
	box  Box
}

func strutEdges(sp ewmh.WmStrutPartial, rootW, rootH int) []strutEdge {
	var edges []strutEdge
	if sp.Top > 0 {
		edges = append(edges, strutEdge{"top", Box{
			X: int(sp.TopStartX), Y: 0,
			W: int(sp.TopEndX) - int(sp.TopStartX) + 1, H: int(sp.Top),
		}})
	}
	if sp.Bottom > 0 {
		edges = append(edges, strutEdge{"bottom", Box{
			X: int(sp.BottomStartX), Y: rootH - int(sp.Bottom),
			W: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, H: int(sp.Bottom),
		}})
	}
	if sp.Left > 0 {
		edges = append(edges, strutEdge{"left", Box{
			X: 0, Y: int(sp.LeftStartY),
			W: int(sp.Left), H: int(sp.LeftEndY) - int(sp.LeftStartY) + 1,
		}})
	}
	if sp.Right > 0 {
		edges = append(edges, strutEdge{"right", Box{
			X: rootW - int(sp.Right), Y: int(sp.RightStartY),
			W: int(sp.Right), H: int(sp.RightEndY) - int(sp.RightStartY) + 1,
		}})
	}
	return edges
}

func (c *Connection) rootSize() (int, int, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(geom.Width), int(geom.Height), true
}

// dockStruts collects the strut reservations of every dock window. Docks
// that only publish _NET_WM_STRUT are widened to span the whole root.
func (c *Connection) dockStruts() []ewmh.WmStrutPartial {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil
	}
	rootW, rootH, ok := c.rootSize()
	if !ok {
		return nil
	}

	var out []ewmh.WmStrutPartial
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			out = append(out, *sp)
			continue
		}
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			out = append(out, ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY: uint(rootH - 1), RightEndY: uint(rootH - 1),
				TopEndX: uint(rootW - 1), BottomEndX: uint(rootW - 1),
			})
		}
	}
	return out
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}
