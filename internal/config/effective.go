package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults. User hotkeys
// are layered over the default bindings key by key.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.ZoneLayoutsPath != nil {
		cfg.ZoneLayoutsPath = strings.TrimSpace(*raw.ZoneLayoutsPath)
	}

	if d := raw.Drag; d != nil {
		if d.ModifierKey != nil {
			cfg.Drag.ModifierKey = strings.ToLower(strings.TrimSpace(*d.ModifierKey))
		}
		if d.ShowOverlay != nil {
			cfg.Drag.ShowOverlay = *d.ShowOverlay
		}
		if d.OverlayOpacity != nil {
			cfg.Drag.OverlayOpacity = *d.OverlayOpacity
		}
		if d.DropDelayMS != nil {
			cfg.Drag.DropDelayMS = *d.DropDelayMS
		}
	}

	if raw.Input != nil && raw.Input.PollIntervalMS != nil {
		cfg.Input.PollIntervalMS = *raw.Input.PollIntervalMS
	}

	if o := raw.Overlay; o != nil {
		if o.Color != nil {
			cfg.Overlay.Color = strings.TrimSpace(*o.Color)
		}
		if o.HighlightColor != nil {
			cfg.Overlay.HighlightColor = strings.TrimSpace(*o.HighlightColor)
		}
	}

	for keys, action := range raw.Hotkeys {
		keys = strings.TrimSpace(keys)
		if keys == "" {
			return nil, &ValidationError{Path: "hotkeys", Err: fmt.Errorf("hotkeys contains an empty key sequence")}
		}
		cfg.Hotkeys[keys] = strings.TrimSpace(action)
	}

	return cfg, nil
}
