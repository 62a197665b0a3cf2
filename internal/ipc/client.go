package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/snapzone/internal/layout"
	"github.com/1broseidon/snapzone/internal/runtimepath"
	"github.com/1broseidon/snapzone/internal/snap"
	"github.com/1broseidon/snapzone/internal/zones"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; send surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// send writes one request and decodes the response data into out, if set.
func (c *Client) send(cmd CommandType, payload any, out any) error {
	req := Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = raw
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	line, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return fmt.Errorf("daemon error: %s", resp.Error)
	}
	if out != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("failed to parse %s data: %w", cmd, err)
		}
	}
	return nil
}

// Reload asks the daemon to re-read its config.
func (c *Client) Reload() error {
	return c.send(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.send(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetScreens lists monitors in layout-engine order.
func (c *Client) GetScreens() (*ScreensData, error) {
	var data ScreensData
	if err := c.send(CommandGetScreens, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ApplyAction runs action against the frontmost window and returns what
// the daemon did. Layout activation has no placement and returns nil.
func (c *Client) ApplyAction(action layout.Action) (*snap.Result, error) {
	var res *snap.Result
	if err := c.send(CommandApplyAction, action, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListZoneLayouts() (*ZoneLayoutsData, error) {
	var data ZoneLayoutsData
	if err := c.send(CommandListZoneLayouts, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) GetZoneLayout(id string) (*zones.Layout, error) {
	var l zones.Layout
	if err := c.send(CommandGetZoneLayout, LayoutIDPayload{ID: id}, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveZoneLayout inserts or replaces a layout by ID.
func (c *Client) SaveZoneLayout(l zones.Layout) error {
	return c.send(CommandSaveZoneLayout, l, nil)
}

func (c *Client) DeleteZoneLayout(id string) error {
	return c.send(CommandDeleteZoneLayout, LayoutIDPayload{ID: id}, nil)
}

// SetActiveLayout activates id. An empty id clears the active layout.
func (c *Client) SetActiveLayout(id string) error {
	return c.send(CommandSetActiveLayout, LayoutIDPayload{ID: id}, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
