package mcp

import (
	"github.com/1broseidon/snapzone/internal/ipc"
	"github.com/1broseidon/snapzone/internal/platform"
)

// ApplyActionInput is the input for the apply_action tool.
type ApplyActionInput struct {
	Action string `json:"action" jsonschema:"Action in text form, e.g. left-half, maximize, apply-zone:2 or activate-layout:<id>. Call list_actions for every name."`
}

// ApplyActionOutput is the output for the apply_action tool.
type ApplyActionOutput struct {
	Action string        `json:"action"`
	Window uint32        `json:"window,omitempty"`
	Title  string        `json:"title,omitempty"`
	Target platform.Rect `json:"target"`
}

type ListActionsInput struct{}

type ListActionsOutput struct {
	Actions []string `json:"actions"`
	// Parameterized forms that take an argument after a colon.
	Parameterized []string `json:"parameterized"`
}

type ListScreensInput struct{}

type ListScreensOutput struct {
	Screens []ipc.ScreenInfo `json:"screens"`
}

type ListZoneLayoutsInput struct{}

// ZoneLayoutSummary describes one stored layout.
type ZoneLayoutSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Zones  []uint32 `json:"zones"`
	Active bool     `json:"active"`
}

type ListZoneLayoutsOutput struct {
	Layouts        []ZoneLayoutSummary `json:"layouts"`
	ActiveLayoutID string              `json:"active_layout_id,omitempty"`
}

// SetActiveLayoutInput is the input for the set_active_layout tool.
type SetActiveLayoutInput struct {
	Layout string `json:"layout,omitempty" jsonschema:"Layout ID or name (case-insensitive). Leave empty to clear the active layout."`
}

type SetActiveLayoutOutput struct {
	ActiveLayoutID string `json:"active_layout_id,omitempty"`
	Cleared        bool   `json:"cleared,omitempty"`
}

type GetStatusInput struct{}

type GetStatusOutput struct {
	DaemonRunning    bool   `json:"daemon_running"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
	ActiveLayoutID   string `json:"active_layout_id,omitempty"`
	ActiveLayoutName string `json:"active_layout_name,omitempty"`
	DragModifier     string `json:"drag_modifier"`
	DragOverlay      bool   `json:"drag_overlay"`
	// LastAction is empty until something has been applied.
	LastAction string        `json:"last_action,omitempty"`
	LastWindow uint32        `json:"last_window,omitempty"`
	LastTarget platform.Rect `json:"last_target"`
	LastAt     string        `json:"last_at,omitempty"`
}
