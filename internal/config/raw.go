package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawDragConfig struct {
	ModifierKey    *string  `yaml:"modifier_key"`
	ShowOverlay    *bool    `yaml:"show_overlay"`
	OverlayOpacity *float64 `yaml:"overlay_opacity"`
	DropDelayMS    *int     `yaml:"drop_delay_ms"`
}

type RawInputConfig struct {
	PollIntervalMS *int `yaml:"poll_interval_ms"`
}

type RawOverlayConfig struct {
	Color          *string `yaml:"color"`
	HighlightColor *string `yaml:"highlight_color"`
}

// RawConfig mirrors one YAML file. Nil fields were not set by that file.
type RawConfig struct {
	Include         IncludeList       `yaml:"include"`
	LogLevel        *string           `yaml:"log_level"`
	Display         *string           `yaml:"display"`
	ZoneLayoutsPath *string           `yaml:"zone_layouts_path"`
	Drag            *RawDragConfig    `yaml:"drag"`
	Input           *RawInputConfig   `yaml:"input"`
	Overlay         *RawOverlayConfig `yaml:"overlay"`
	Hotkeys         map[string]string `yaml:"hotkeys"`
}

// merge layers overlay on top of c. Hotkey maps merge per key.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.ZoneLayoutsPath != nil {
		out.ZoneLayoutsPath = overlay.ZoneLayoutsPath
	}

	if overlay.Drag != nil {
		merged := RawDragConfig{}
		if out.Drag != nil {
			merged = *out.Drag
		}
		if overlay.Drag.ModifierKey != nil {
			merged.ModifierKey = overlay.Drag.ModifierKey
		}
		if overlay.Drag.ShowOverlay != nil {
			merged.ShowOverlay = overlay.Drag.ShowOverlay
		}
		if overlay.Drag.OverlayOpacity != nil {
			merged.OverlayOpacity = overlay.Drag.OverlayOpacity
		}
		if overlay.Drag.DropDelayMS != nil {
			merged.DropDelayMS = overlay.Drag.DropDelayMS
		}
		out.Drag = &merged
	}

	if overlay.Input != nil {
		merged := RawInputConfig{}
		if out.Input != nil {
			merged = *out.Input
		}
		if overlay.Input.PollIntervalMS != nil {
			merged.PollIntervalMS = overlay.Input.PollIntervalMS
		}
		out.Input = &merged
	}

	if overlay.Overlay != nil {
		merged := RawOverlayConfig{}
		if out.Overlay != nil {
			merged = *out.Overlay
		}
		if overlay.Overlay.Color != nil {
			merged.Color = overlay.Overlay.Color
		}
		if overlay.Overlay.HighlightColor != nil {
			merged.HighlightColor = overlay.Overlay.HighlightColor
		}
		out.Overlay = &merged
	}

	if overlay.Hotkeys != nil {
		merged := make(map[string]string, len(out.Hotkeys)+len(overlay.Hotkeys))
		for k, v := range out.Hotkeys {
			merged[k] = v
		}
		for k, v := range overlay.Hotkeys {
			merged[k] = v
		}
		out.Hotkeys = merged
	}

	return out
}
