package input

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/snapzone/internal/modifier"
	"github.com/1broseidon/snapzone/internal/x11"
)

// DefaultPollInterval is used when the configured interval is not positive.
const DefaultPollInterval = 8 * time.Millisecond

// Sampler is the subset of the X11 connection the poller reads.
type Sampler interface {
	QueryPointer() (x11.PointerState, error)
	QueryKeymap() ([32]byte, error)
}

// keysymsByPhysical lists the keysyms watched for each modifier key.
var keysymsByPhysical = map[modifier.Physical]string{
	modifier.ControlLeft:  "Control_L",
	modifier.ControlRight: "Control_R",
	modifier.AltLeft:      "Alt_L",
	modifier.AltRight:     "Alt_R",
	modifier.AltGr:        "ISO_Level3_Shift",
	modifier.ShiftLeft:    "Shift_L",
	modifier.ShiftRight:   "Shift_R",
	modifier.SuperLeft:    "Super_L",
	modifier.SuperRight:   "Super_R",
}

// Keycodes maps X keycodes to the physical modifier they produce.
type Keycodes map[byte]modifier.Physical

// ResolveKeycodes looks up every watched keysym on conn's keyboard map.
func ResolveKeycodes(conn *x11.Connection) Keycodes {
	out := make(Keycodes)
	for phys, sym := range keysymsByPhysical {
		for _, kc := range conn.KeycodesFor(sym) {
			if _, taken := out[byte(kc)]; !taken {
				out[byte(kc)] = phys
			}
		}
	}
	return out
}

type sample struct {
	pointer x11.PointerState
	keymap  [32]byte
}

func keyDown(keymap [32]byte, kc byte) bool {
	return keymap[kc/8]&(1<<(kc%8)) != 0
}

// diff emits key changes first, then pointer motion, then the button edge,
// so a release is always preceded by the final pointer position.
func diff(prev, cur sample, keys Keycodes) []Event {
	var events []Event
	for kc, phys := range keys {
		was, is := keyDown(prev.keymap, kc), keyDown(cur.keymap, kc)
		switch {
		case is && !was:
			events = append(events, Event{Kind: KeyDown, Key: phys})
		case was && !is:
			events = append(events, Event{Kind: KeyUp, Key: phys})
		}
	}

	x, y := float64(cur.pointer.X), float64(cur.pointer.Y)
	if cur.pointer.X != prev.pointer.X || cur.pointer.Y != prev.pointer.Y {
		events = append(events, Event{Kind: Move, X: x, Y: y})
	}

	switch {
	case cur.pointer.Button1 && !prev.pointer.Button1:
		events = append(events, Event{Kind: ButtonDown, X: x, Y: y})
	case !cur.pointer.Button1 && prev.pointer.Button1:
		events = append(events, Event{Kind: ButtonUp, X: x, Y: y})
	}
	return events
}

// X11Source polls the X server for pointer and keymap state and turns the
// differences between samples into events.
type X11Source struct {
	sampler  Sampler
	keys     Keycodes
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	started  bool
	failed   bool
	events   chan Event
	reported bool
}

var _ Source = (*X11Source)(nil)

// NewX11Source creates a poller. A nil logger discards debug output.
func NewX11Source(sampler Sampler, keys Keycodes, interval time.Duration, logger *slog.Logger) *X11Source {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &X11Source{sampler: sampler, keys: keys, interval: interval, logger: logger}
}

// Start begins polling. Repeated calls return the same channel. If the
// first sample fails the error is returned once and the source stays dead:
// later calls return a closed channel.
func (s *X11Source) Start(ctx context.Context) (<-chan Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return s.events, nil
	}
	if s.failed {
		return closedEvents(), nil
	}

	first, err := s.take()
	if err == nil && len(s.keys) == 0 {
		err = fmt.Errorf("no modifier keycodes on this keyboard map")
	}
	if err != nil {
		s.failed = true
		return closedEvents(), fmt.Errorf("install input hook: %w", err)
	}

	s.started = true
	s.events = make(chan Event, 64)
	go s.poll(ctx, first)
	return s.events, nil
}

func (s *X11Source) take() (sample, error) {
	p, err := s.sampler.QueryPointer()
	if err != nil {
		return sample{}, err
	}
	k, err := s.sampler.QueryKeymap()
	if err != nil {
		return sample{}, err
	}
	return sample{pointer: p, keymap: k}, nil
}

func (s *X11Source) poll(ctx context.Context, prev sample) {
	defer close(s.events)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		cur, err := s.take()
		if err != nil {
			if !s.reported {
				s.logger.Debug("input sample failed", "error", err)
				s.reported = true
			}
			continue
		}
		s.reported = false

		for _, ev := range diff(prev, cur, s.keys) {
			select {
			case s.events <- ev:
			case <-ctx.Done():
				return
			}
		}
		prev = cur
	}
}

func closedEvents() <-chan Event {
	ch := make(chan Event)
	close(ch)
	return ch
}
