//go:build linux

package platform

import (
	"fmt"
	"strings"

	"github.com/1broseidon/snapzone/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackendFromDisplay opens a fresh X11 connection. An empty display
// name uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnectionDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop runs the X11 event loop until Quit is called.
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// Conn exposes the X11 connection for the input source and overlay surface.
func (b *LinuxBackend) Conn() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays ordered by ID.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, opError("list monitors", 0, err)
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: rectFromBox(m.Bounds),
			Usable: rectFromBox(m.Usable),
		})
	}
	return displays, nil
}

// FrontmostWindow prefers the focused window and otherwise takes the
// topmost normal window of the stacking order.
func (b *LinuxBackend) FrontmostWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	if wid, err := conn.GetActiveWindow(); err == nil && wid != 0 && wid != conn.Root {
		if conn.IsNormalWindow(wid) {
			return WindowID(wid), nil
		}
	}

	wid, err := conn.TopmostNormalWindow()
	if err != nil || wid == 0 {
		return 0, fmt.Errorf("frontmost window: %w", ErrNotFound)
	}
	return WindowID(wid), nil
}

// WindowRect returns the window's client rect in absolute coordinates.
func (b *LinuxBackend) WindowRect(windowID WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	x, y, w, h, err := conn.WindowGeometry(xproto.Window(windowID))
	if err != nil {
		return Rect{}, opError("get geometry", windowID, err)
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	err = conn.MoveResizeWindow(xproto.Window(windowID), bounds.X, bounds.Y, bounds.Width, bounds.Height)
	return opError("move/resize", windowID, err)
}

// Raise restacks the window above its siblings.
func (b *LinuxBackend) Raise(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return opError("raise", windowID, conn.RaiseWindow(xproto.Window(windowID)))
}

// WindowTitle returns a human-readable label for logs and status output.
func (b *LinuxBackend) WindowTitle(windowID WindowID) string {
	conn, err := b.connection()
	if err != nil {
		return ""
	}
	win := xproto.Window(windowID)
	if title, err := ewmh.WmNameGet(conn.XUtil, win); err == nil && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if title, err := icccm.WmNameGet(conn.XUtil, win); err == nil && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if class, err := icccm.WmClassGet(conn.XUtil, win); err == nil {
		return strings.TrimSpace(class.Class)
	}
	return ""
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, &PlatformError{Op: "connect", Err: fmt.Errorf("x11 backend connection is nil")}
	}
	return b.conn, nil
}

func rectFromBox(box x11.Box) Rect {
	return Rect{X: box.X, Y: box.Y, Width: box.W, Height: box.H}
}
