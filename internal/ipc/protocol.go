package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/snap"
	"github.com/1broseidon/snapzone/internal/zones"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload           CommandType = "RELOAD"
	CommandGetStatus        CommandType = "GET_STATUS"
	CommandGetScreens       CommandType = "GET_SCREENS"
	CommandApplyAction      CommandType = "APPLY_ACTION"
	CommandListZoneLayouts  CommandType = "LIST_ZONE_LAYOUTS"
	CommandGetZoneLayout    CommandType = "GET_ZONE_LAYOUT"
	CommandSaveZoneLayout   CommandType = "SAVE_ZONE_LAYOUT"
	CommandDeleteZoneLayout CommandType = "DELETE_ZONE_LAYOUT"
	CommandSetActiveLayout  CommandType = "SET_ACTIVE_LAYOUT"
)

// Request is one newline-terminated JSON line from client to server.
// APPLY_ACTION carries a layout.Action as its payload and
// SAVE_ZONE_LAYOUT a zones.Layout.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	ActiveLayoutID   string       `json:"active_layout_id,omitempty"`
	ActiveLayoutName string       `json:"active_layout_name,omitempty"`
	DragModifier     string       `json:"drag_modifier"`
	DragOverlay      bool         `json:"drag_overlay"`
	LastAction       *snap.Result `json:"last_action,omitempty"`
	UptimeSeconds    int64        `json:"uptime_seconds"`
	DaemonRunning    bool         `json:"daemon_running"`
}

// ScreenInfo is one monitor as seen by the layout engine. Index is the
// value used in overlay labels.
type ScreenInfo struct {
	Index  int           `json:"index"`
	ID     int           `json:"id"`
	Name   string        `json:"name"`
	Bounds platform.Rect `json:"bounds"`
	Usable platform.Rect `json:"usable"`
}

// ScreensData represents the data returned by GET_SCREENS
type ScreensData struct {
	Screens []ScreenInfo `json:"screens"`
}

type ZoneLayoutsData struct {
	Layouts        []zones.Layout `json:"layouts"`
	ActiveLayoutID string         `json:"active_layout_id,omitempty"`
}

// LayoutIDPayload addresses one layout. For SET_ACTIVE_LAYOUT an empty ID
// clears the active layout.
type LayoutIDPayload struct {
	ID string `json:"id"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	resp := &Response{Status: "OK"}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		resp.Data = raw
	}
	return resp, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
