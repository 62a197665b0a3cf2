package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at a dotted YAML path and where it
// came from.
//
// Supported paths:
//
//	log_level
//	display
//	zone_layouts_path
//	drag[.modifier_key|.show_overlay|.overlay_opacity|.drop_delay_ms]
//	input[.poll_interval_ms]
//	overlay[.color|.highlight_color]
//	hotkeys[.<key sequence>]
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	head, rest, nested := strings.Cut(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)

	switch head {
	case "log_level", "display", "zone_layouts_path":
		if nested {
			return nil, unknown
		}
		return map[string]any{
			"log_level":         cfg.LogLevel,
			"display":           cfg.Display,
			"zone_layouts_path": cfg.ZoneLayoutsPath,
		}[head], nil

	case "drag":
		if !nested {
			return cfg.Drag, nil
		}
		switch rest {
		case "modifier_key":
			return cfg.Drag.ModifierKey, nil
		case "show_overlay":
			return cfg.Drag.ShowOverlay, nil
		case "overlay_opacity":
			return cfg.Drag.OverlayOpacity, nil
		case "drop_delay_ms":
			return cfg.Drag.DropDelayMS, nil
		}
		return nil, unknown

	case "input":
		if !nested {
			return cfg.Input, nil
		}
		if rest == "poll_interval_ms" {
			return cfg.Input.PollIntervalMS, nil
		}
		return nil, unknown

	case "overlay":
		if !nested {
			return cfg.Overlay, nil
		}
		switch rest {
		case "color":
			return cfg.Overlay.Color, nil
		case "highlight_color":
			return cfg.Overlay.HighlightColor, nil
		}
		return nil, unknown

	case "hotkeys":
		if !nested {
			return cfg.Hotkeys, nil
		}
		action, ok := cfg.Hotkeys[rest]
		if !ok {
			return nil, fmt.Errorf("unknown hotkeys entry %q", rest)
		}
		return action, nil
	}
	return nil, unknown
}
