package hotkeys

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/snapzone/internal/config"
	"github.com/1broseidon/snapzone/internal/layout"
	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

const applyTimeout = 2 * time.Second

// Applier runs a layout action against the frontmost window.
type Applier interface {
	Apply(ctx context.Context, action layout.Action) error
}

// Handler owns the global key grabs for configured bindings.
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	applier Applier
	logger  *slog.Logger

	mu    sync.Mutex
	bound []string
}

var ignoreModsOnce sync.Once

// NewHandler creates a handler grabbing keys on root.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, applier Applier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &Handler{xu: xu, root: root, applier: applier, logger: logger}
}

// Bind replaces every grab with the given bindings. Sequences that fail to
// grab are logged and skipped; the returned error joins them.
func (h *Handler) Bind(bindings []config.Binding) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.bound) > 0 {
		keybind.Detach(h.xu, h.root)
		h.bound = nil
	}

	var errs []error
	for _, b := range bindings {
		if err := h.register(b); err != nil {
			log.Printf("Failed to register hotkey %s: %v", b.Keys, err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Keys, err))
			continue
		}
		h.bound = append(h.bound, b.Keys)
	}
	log.Printf("Registered %d hotkeys", len(h.bound))
	return errors.Join(errs...)
}

// Bound returns the sequences currently grabbed.
func (h *Handler) Bound() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.bound...)
}

func (h *Handler) register(b config.Binding) error {
	action := b.Action
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		// Applying runs X round-trips; keep them off the event loop.
		go h.fire(b.Keys, action)
	}).Connect(h.xu, h.root, b.Keys, true)
}

func (h *Handler) fire(keys string, action layout.Action) {
	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()
	if err := h.applier.Apply(ctx, action); err != nil {
		if errors.Is(err, platform.ErrNotFound) {
			h.logger.Debug("hotkey had nothing to act on", "keys", keys, "action", action.String(), "error", err)
			return
		}
		h.logger.Warn("hotkey action failed", "keys", keys, "action", action.String(), "error", err)
	}
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)
	base := []uint16{caps}
	for _, keysym := range []string{"Num_Lock", "Scroll_Lock"} {
		mask := modMaskForKeysym(xu, keysym)
		if mask == 0 {
			continue
		}
		dup := false
		for _, m := range base {
			dup = dup || m == mask
		}
		if !dup {
			base = append(base, mask)
		}
	}
	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns 0 plus every non-empty OR-combination of base.
func ignoreMasks(base []uint16) []uint16 {
	out := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
