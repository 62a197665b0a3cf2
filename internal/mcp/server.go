package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/snapzone/internal/ipc"
	"github.com/1broseidon/snapzone/internal/layout"
	"github.com/1broseidon/snapzone/internal/snap"
)

const (
	ServerName    = "snapzone"
	ServerVersion = "0.1.0"
)

// Daemon is the slice of the IPC client the tools use.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetScreens() (*ipc.ScreensData, error)
	ApplyAction(action layout.Action) (*snap.Result, error)
	ListZoneLayouts() (*ipc.ZoneLayoutsData, error)
	SetActiveLayout(id string) error
}

// Server exposes window placement to MCP clients over stdio. Every tool
// goes through the running daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates a server. A nil daemon uses the default IPC socket.
func NewServer(daemon Daemon) *Server {
	if daemon == nil {
		daemon = ipc.NewClient()
	}
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_action",
		Description: "Move and resize the focused window. Accepts fixed placements (left-half, top-right, center-third, maximize), relative moves (smaller, larger, move-left), restore, apply-zone:N for zone N of the active zone layout, and activate-layout:<id>.",
	}, s.handleApplyAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_actions",
		Description: "List every action name accepted by apply_action.",
	}, s.handleListActions)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_screens",
		Description: "List monitors in the order the layout engine indexes them, with full bounds and the usable area left after panels and docks.",
	}, s.handleListScreens)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_zone_layouts",
		Description: "List stored zone layouts with their zone numbers and which one is active.",
	}, s.handleListZoneLayouts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_active_layout",
		Description: "Activate a zone layout by ID or name so drag-drop and apply-zone use it. An empty layout clears the active layout.",
	}, s.handleSetActiveLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report daemon uptime, the active zone layout, the drag modifier and the last applied action.",
	}, s.handleGetStatus)
}
