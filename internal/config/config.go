package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/snapzone/internal/layout"
	"github.com/1broseidon/snapzone/internal/modifier"
	"github.com/1broseidon/snapzone/internal/overlay"
	"github.com/1broseidon/snapzone/internal/zones"
	"gopkg.in/yaml.v3"
)

// DisabledBinding removes a default hotkey when used as its action.
const DisabledBinding = "none"

// DragConfig controls modifier-drag snapping.
type DragConfig struct {
	// ModifierKey is held while dragging to enable zones:
	// control, alt, shift, super, or none to disable the feature.
	ModifierKey    string  `yaml:"modifier_key"`
	ShowOverlay    bool    `yaml:"show_overlay"`
	OverlayOpacity float64 `yaml:"overlay_opacity"`
	DropDelayMS    int     `yaml:"drop_delay_ms"`
}

// InputConfig tunes the global input poller.
type InputConfig struct {
	PollIntervalMS int `yaml:"poll_interval_ms"`
}

// OverlayConfig sets zone preview colors as #rrggbb.
type OverlayConfig struct {
	Color          string `yaml:"color"`
	HighlightColor string `yaml:"highlight_color"`
}

// Config holds the application configuration.
type Config struct {
	LogLevel        string            `yaml:"log_level"`
	Display         string            `yaml:"display,omitempty"`
	ZoneLayoutsPath string            `yaml:"zone_layouts_path,omitempty"`
	Drag            DragConfig        `yaml:"drag"`
	Input           InputConfig       `yaml:"input"`
	Overlay         OverlayConfig     `yaml:"overlay"`
	Hotkeys         map[string]string `yaml:"hotkeys"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Drag: DragConfig{
			ModifierKey:    "none",
			ShowOverlay:    true,
			OverlayOpacity: 0.25,
			DropDelayMS:    10,
		},
		Input: InputConfig{
			PollIntervalMS: 8,
		},
		Overlay: OverlayConfig{
			Color:          "#2c3e50",
			HighlightColor: "#3498db",
		},
		Hotkeys: DefaultHotkeys(),
	}
}

// DefaultHotkeys binds Super+Alt combinations to the common placements and
// Super+Alt+<digit> to zones of the active layout.
func DefaultHotkeys() map[string]string {
	keys := map[string]string{
		"Mod4-Mod1-Left":      "left-half",
		"Mod4-Mod1-Right":     "right-half",
		"Mod4-Mod1-Up":        "top-half",
		"Mod4-Mod1-Down":      "bottom-half",
		"Mod4-Mod1-u":         "top-left",
		"Mod4-Mod1-i":         "top-right",
		"Mod4-Mod1-j":         "bottom-left",
		"Mod4-Mod1-k":         "bottom-right",
		"Mod4-Mod1-d":         "first-third",
		"Mod4-Mod1-f":         "center-third",
		"Mod4-Mod1-g":         "last-third",
		"Mod4-Mod1-e":         "first-two-thirds",
		"Mod4-Mod1-t":         "last-two-thirds",
		"Mod4-Mod1-Return":    "maximize",
		"Mod4-Mod1-c":         "center",
		"Mod4-Mod1-BackSpace": "restore",
		"Mod4-Mod1-minus":     "smaller",
		"Mod4-Mod1-equal":     "larger",
	}
	for n := 1; n <= 9; n++ {
		keys[fmt.Sprintf("Mod4-Mod1-%d", n)] = fmt.Sprintf("apply-zone:%d", n)
	}
	return keys
}

// Binding is a parsed hotkey.
type Binding struct {
	Keys   string
	Action layout.Action
}

// Bindings returns the enabled hotkeys sorted by key sequence. Entries
// mapped to "none" are skipped.
func (c *Config) Bindings() ([]Binding, error) {
	keys := make([]string, 0, len(c.Hotkeys))
	for k := range c.Hotkeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Binding, 0, len(keys))
	for _, k := range keys {
		text := strings.TrimSpace(c.Hotkeys[k])
		if strings.EqualFold(text, DisabledBinding) {
			continue
		}
		a, err := layout.ParseAction(text)
		if err != nil {
			return nil, &ValidationError{Path: "hotkeys." + k, Err: err}
		}
		out = append(out, Binding{Keys: k, Action: a})
	}
	return out, nil
}

// DragModifier implements drag.Settings. ok is false when dragging is off.
func (c *Config) DragModifier() (modifier.Key, bool) {
	k, err := modifier.ParseKey(c.Drag.ModifierKey)
	if err != nil || k == modifier.None {
		return modifier.None, false
	}
	return k, true
}

func (c *Config) ShowDragOverlay() bool { return c.Drag.ShowOverlay }

func (c *Config) OverlayOpacity() float64 { return c.Drag.OverlayOpacity }

func (c *Config) DropDelay() time.Duration {
	return time.Duration(c.Drag.DropDelayMS) * time.Millisecond
}

// PollInterval is the input sampling period.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Input.PollIntervalMS) * time.Millisecond
}

// ZoneStorePath resolves zone_layouts_path, expanding a leading ~.
func (c *Config) ZoneStorePath() (string, error) {
	p := strings.TrimSpace(c.ZoneLayoutsPath)
	if p == "" {
		return zones.DefaultPath()
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p, nil
}

// OverlayColors returns the parsed zone and highlight colors.
func (c *Config) OverlayColors() (uint32, uint32) {
	zone, err := overlay.ParseColor(c.Overlay.Color)
	if err != nil {
		zone = overlay.DefaultZoneColor
	}
	hl, err := overlay.ParseColor(c.Overlay.HighlightColor)
	if err != nil {
		hl = overlay.DefaultHighlightColor
	}
	return zone, hl
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the effective configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if _, err := modifier.ParseKey(c.Drag.ModifierKey); err != nil {
		return &ValidationError{Path: "drag.modifier_key", Err: err}
	}
	if c.Drag.OverlayOpacity < 0 || c.Drag.OverlayOpacity > 1 {
		return &ValidationError{Path: "drag.overlay_opacity", Err: fmt.Errorf("overlay_opacity must be between 0 and 1")}
	}
	if c.Drag.DropDelayMS < 0 {
		return &ValidationError{Path: "drag.drop_delay_ms", Err: fmt.Errorf("drop_delay_ms must be >= 0")}
	}
	if c.Input.PollIntervalMS < 1 {
		return &ValidationError{Path: "input.poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be >= 1")}
	}
	if _, err := overlay.ParseColor(c.Overlay.Color); err != nil {
		return &ValidationError{Path: "overlay.color", Err: err}
	}
	if _, err := overlay.ParseColor(c.Overlay.HighlightColor); err != nil {
		return &ValidationError{Path: "overlay.highlight_color", Err: err}
	}
	if c.Hotkeys == nil {
		return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("hotkeys must not be null")}
	}
	for keys := range c.Hotkeys {
		if strings.TrimSpace(keys) == "" {
			return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("hotkeys contains an empty key sequence")}
		}
	}
	if _, err := c.Bindings(); err != nil {
		return err
	}
	return nil
}
