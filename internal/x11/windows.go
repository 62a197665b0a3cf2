package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// MoveResizeWindow moves and resizes a window to the specified geometry.
// It returns an error only when both the WM request and the direct
// ConfigureWindow fail.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Maximized windows ignore geometry requests on most WMs.
	c.unmaximizeWindow(windowID)

	return moveResize(
		func() error {
			return ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height)
		},
		func() error {
			return xproto.ConfigureWindowChecked(
				c.XUtil.Conn(),
				windowID,
				xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
				configureValues(x, y, width, height),
			).Check()
		},
	)
}

// moveResize runs direct only when viaWM fails.
func moveResize(viaWM, direct func() error) error {
	wmErr := viaWM()
	if wmErr == nil {
		return nil
	}
	if err := direct(); err != nil {
		return fmt.Errorf("_NET_MOVERESIZE_WINDOW: %v; ConfigureWindow: %w", wmErr, err)
	}
	return nil
}

// configureValues encodes a geometry for ConfigureWindow. Coordinates are
// INT16 on the wire and sizes must be at least 1.
func configureValues(x, y, width, height int) []uint32 {
	return []uint32{
		uint32(int32(x)),
		uint32(int32(y)),
		uint32(max(1, width)),
		uint32(max(1, height)),
	}
}

func (c *Connection) unmaximizeWindow(windowID xproto.Window) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state)
		}
	}
}

// RaiseWindow asks the WM to restack the window on top, then falls back to
// a direct ConfigureWindow for WMs that ignore _NET_RESTACK_WINDOW.
func (c *Connection) RaiseWindow(windowID xproto.Window) error {
	if err := ewmh.RestackWindow(c.XUtil, windowID); err == nil {
		return nil
	}
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
}

// WindowGeometry returns the window's client rect in root coordinates.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	return len(types) == 0
}

// GetActiveWindow returns the EWMH focused window.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// TopmostNormalWindow walks the stacking order from the top and returns the
// first normal, visible window.
func (c *Connection) TopmostNormalWindow() (xproto.Window, error) {
	clients, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil || len(clients) == 0 {
		clients, err = ewmh.ClientListGet(c.XUtil)
		if err != nil {
			return 0, err
		}
	}

	for i := len(clients) - 1; i >= 0; i-- {
		win := clients[i]
		if !c.IsNormalWindow(win) || c.isHidden(win) {
			continue
		}
		return win, nil
	}
	return 0, fmt.Errorf("no normal client windows")
}

func (c *Connection) isHidden(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}
