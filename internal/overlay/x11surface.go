package overlay

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/zones"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Default colors when the config leaves them empty.
const (
	DefaultZoneColor      = 0x2c3e50
	DefaultHighlightColor = 0x3498db
	labelTextColor        = 0xf5f7fa
)

// zoneGap keeps neighbouring zone windows visually apart.
const zoneGap = 4

// ParseColor reads "#rrggbb" or "rrggbb".
func ParseColor(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("color %q must be #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must be #rrggbb", s)
	}
	return uint32(v), nil
}

type zoneWindow struct {
	win    xproto.Window
	zone   zones.Zone
	bounds platform.Rect
	lit    bool
}

type preview struct {
	screen  platform.Rect
	layout  *zones.Layout
	windows []*zoneWindow
	mapped  bool
}

// X11Surface draws each zone as an override-redirect window filled with
// the zone color, numbered in the centre. The zone under the pointer is
// repainted with the highlight color.
type X11Surface struct {
	xu        *xgbutil.XUtil
	root      xproto.Window
	logger    *slog.Logger
	color     uint32
	highlight uint32

	mu       sync.Mutex
	previews map[string]*preview
	gc       xproto.Gcontext
	font     xproto.Font
	noText   bool
}

var _ Surface = (*X11Surface)(nil)

// NewX11Surface creates a surface on the root window of xu. A nil logger
// discards output.
func NewX11Surface(xu *xgbutil.XUtil, root xproto.Window, color, highlight uint32, logger *slog.Logger) *X11Surface {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &X11Surface{
		xu:        xu,
		root:      root,
		logger:    logger,
		color:     color,
		highlight: highlight,
		previews:  make(map[string]*preview),
	}
}

// SetColors changes the colors used by the next Show.
func (s *X11Surface) SetColors(color, highlight uint32) {
	s.mu.Lock()
	s.color, s.highlight = color, highlight
	s.mu.Unlock()
}

// Show maps one window per zone. An empty or nil layout shows nothing.
func (s *X11Surface) Show(label string, layout *zones.Layout, screen platform.Rect, opacity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.previews[label]
	if p != nil {
		s.destroy(p)
	}
	p = &preview{screen: screen, layout: layout}
	s.previews[label] = p

	if layout == nil || len(layout.Zones) == 0 {
		return nil
	}

	for _, z := range layout.Zones {
		abs := z.Abs(screen)
		abs.X += screen.X + zoneGap
		abs.Y += screen.Y + zoneGap
		abs.Width -= 2 * zoneGap
		abs.Height -= 2 * zoneGap

		win, err := s.createOverrideRedirectWindow()
		if err != nil {
			s.destroy(p)
			return fmt.Errorf("create zone window: %w", err)
		}
		if err := setOpacity(s.xu, win, opacity); err != nil {
			// Without a compositor the zones are drawn opaque.
			s.logger.Debug("overlay opacity not set", "label", label, "error", err)
		}
		zw := &zoneWindow{win: win, zone: z, bounds: abs}
		p.windows = append(p.windows, zw)
		xevent.ExposeFun(s.onExpose).Connect(s.xu, win)
		xproto.MapWindow(s.xu.Conn(), win)
		s.paint(zw, s.color)
	}
	p.mapped = true
	s.xu.Sync()
	return nil
}

// Hide destroys the windows behind label but remembers the layout so
// pointer updates still resolve.
func (s *X11Surface) Hide(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.previews[label]
	if !ok {
		return nil
	}
	s.destroy(p)
	return nil
}

// UpdatePointer highlights the first zone whose bounds contain the point.
func (s *X11Surface) UpdatePointer(label string, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.previews[label]
	if !ok || !p.mapped {
		return
	}
	hover, found := p.layout.ZoneAt(p.screen, int(x), int(y))

	for _, zw := range p.windows {
		want := found && zw.zone.ID == hover.ID && zw.zone.Number == hover.Number
		if want == zw.lit {
			continue
		}
		zw.lit = want
		if want {
			s.paint(zw, s.highlight)
		} else {
			s.paint(zw, s.color)
		}
	}
}

// Close releases every window and the text resources.
func (s *X11Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for label, p := range s.previews {
		s.destroy(p)
		delete(s.previews, label)
	}
	conn := s.xu.Conn()
	if s.gc != 0 {
		xproto.FreeGC(conn, s.gc)
		s.gc = 0
	}
	if s.font != 0 {
		xproto.CloseFont(conn, s.font)
		s.font = 0
	}
}

func (s *X11Surface) destroy(p *preview) {
	for _, zw := range p.windows {
		xevent.Detach(s.xu, zw.win)
		xproto.DestroyWindow(s.xu.Conn(), zw.win)
	}
	p.windows = nil
	p.mapped = false
}

func (s *X11Surface) createOverrideRedirectWindow() (xproto.Window, error) {
	conn := s.xu.Conn()
	screen := s.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	// Mask bits are ordered low to high: back_pixel, override_redirect,
	// event_mask.
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		s.root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{s.color, 1, xproto.EventMaskExposure},
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

// paint moves the window into place, fills it and draws the zone number.
func (s *X11Surface) paint(zw *zoneWindow, color uint32) {
	conn := s.xu.Conn()
	w := max(1, zw.bounds.Width)
	h := max(1, zw.bounds.Height)

	xproto.ConfigureWindow(conn, zw.win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{uint32(int32(zw.bounds.X)), uint32(int32(zw.bounds.Y)), uint32(w), uint32(h), xproto.StackModeAbove},
	)
	xproto.ChangeWindowAttributes(conn, zw.win, xproto.CwBackPixel, []uint32{color})
	xproto.ClearArea(conn, false, zw.win, 0, 0, 0, 0)
	s.drawLabel(zw, color)
}

// drawLabel draws the zone number centred on a background of color. The
// server clears it whenever the window is exposed.
func (s *X11Surface) drawLabel(zw *zoneWindow, color uint32) {
	if !s.ensureText(zw.win) {
		return
	}
	w := max(1, zw.bounds.Width)
	h := max(1, zw.bounds.Height)
	text := strconv.FormatUint(uint64(zw.zone.Number), 10)
	conn := s.xu.Conn()
	xproto.ChangeGC(conn, s.gc, xproto.GcForeground|xproto.GcBackground, []uint32{labelTextColor, color})
	xproto.ImageText8(conn, byte(len(text)), xproto.Drawable(zw.win), s.gc,
		int16(w/2-len(text)*4), int16(h/2+6), text)
}

// onExpose redraws the number once the last Expose of a series arrives.
// It runs on the X event loop.
func (s *X11Surface) onExpose(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
	if ev.Count != 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	zw := s.lookup(ev.Window)
	if zw == nil {
		return
	}
	s.drawLabel(zw, s.fill(zw))
}

// lookup finds the mapped zone window with id win.
func (s *X11Surface) lookup(win xproto.Window) *zoneWindow {
	for _, p := range s.previews {
		if !p.mapped {
			continue
		}
		for _, zw := range p.windows {
			if zw.win == win {
				return zw
			}
		}
	}
	return nil
}

func (s *X11Surface) fill(zw *zoneWindow) uint32 {
	if zw.lit {
		return s.highlight
	}
	return s.color
}

// ensureText lazily opens a core font. Missing fonts disable numbering
// instead of failing the overlay.
func (s *X11Surface) ensureText(drawable xproto.Window) bool {
	if s.noText {
		return false
	}
	if s.gc != 0 {
		return true
	}
	conn := s.xu.Conn()

	font, err := xproto.NewFontId(conn)
	if err != nil {
		s.noText = true
		return false
	}
	opened := false
	for _, name := range []string{"10x20", "9x15", "fixed"} {
		if xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		s.noText = true
		return false
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		s.noText = true
		return false
	}
	err = xproto.CreateGCChecked(conn, gc, xproto.Drawable(drawable),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{labelTextColor, s.color, uint32(font), 0},
	).Check()
	if err != nil {
		xproto.CloseFont(conn, font)
		s.noText = true
		return false
	}
	s.gc = gc
	s.font = font
	return true
}

// setOpacity sets _NET_WM_WINDOW_OPACITY.
func setOpacity(xu *xgbutil.XUtil, win xproto.Window, opacity float64) error {
	return xprop.ChangeProp32(xu, win, "_NET_WM_WINDOW_OPACITY", "CARDINAL", opacityValue(opacity))
}

// opacityValue scales opacity, clamped to [0, 1], onto 0..0xffffffff as
// compositors expect.
func opacityValue(opacity float64) uint {
	opacity = min(1, max(0, opacity))
	return uint(opacity * 0xffffffff)
}
