package config

import (
	"sync/atomic"
	"time"

	"github.com/1broseidon/snapzone/internal/modifier"
)

// Live holds the current config and swaps it atomically on reload. Readers
// always see a complete Config.
type Live struct {
	cur atomic.Pointer[Config]
}

func NewLive(cfg *Config) *Live {
	l := &Live{}
	l.Store(cfg)
	return l
}

func (l *Live) Load() *Config { return l.cur.Load() }

// Store replaces the config. A nil cfg is replaced by the defaults.
func (l *Live) Store(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l.cur.Store(cfg)
}

func (l *Live) DragModifier() (modifier.Key, bool) { return l.Load().DragModifier() }
func (l *Live) ShowDragOverlay() bool              { return l.Load().ShowDragOverlay() }
func (l *Live) OverlayOpacity() float64            { return l.Load().OverlayOpacity() }
func (l *Live) DropDelay() time.Duration           { return l.Load().DropDelay() }
