package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/snapzone/internal/config"
	"github.com/1broseidon/snapzone/internal/layout"
	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/screen"
	"github.com/1broseidon/snapzone/internal/snap"
	"github.com/1broseidon/snapzone/internal/zones"
)

const requestTimeout = 5 * time.Second

// Snapper applies actions to the frontmost window.
type Snapper interface {
	Apply(ctx context.Context, action layout.Action) error
	Last() (snap.Result, bool)
}

// LayoutStore is the zone layout persistence exposed over the socket.
type LayoutStore interface {
	List() ([]zones.Layout, error)
	Layout(id string) (*zones.Layout, bool, error)
	Save(l zones.Layout) error
	Delete(id string) error
	ActiveLayoutID() (string, bool, error)
	SetActive(id string) error
	ClearActive() error
}

// Deps are the daemon services the server dispatches to.
type Deps struct {
	Snapper  Snapper
	Store    LayoutStore
	Displays screen.DisplaySource
	Config   func() *config.Config
	// Reload re-reads the config file and applies it.
	Reload func() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	deps         Deps
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        sync.WaitGroup
}

// NewServer creates a server bound to socketPath once started. A stale
// socket file is removed.
func NewServer(socketPath string, deps Deps) *Server {
	_ = os.Remove(socketPath)
	return &Server{
		socketPath: socketPath,
		deps:       deps,
		startTime:  time.Now(),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(requestTimeout))

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	var resp *Response
	if req, err := ParseRequest(data); err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	out, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}
	if _, err := conn.Write(append(out, '\n')); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetScreens:
		return s.handleGetScreens()
	case CommandApplyAction:
		return s.handleApplyAction(req.Payload)
	case CommandListZoneLayouts:
		return s.handleListZoneLayouts()
	case CommandGetZoneLayout:
		return s.handleGetZoneLayout(req.Payload)
	case CommandSaveZoneLayout:
		return s.handleSaveZoneLayout(req.Payload)
	case CommandDeleteZoneLayout:
		return s.handleDeleteZoneLayout(req.Payload)
	case CommandSetActiveLayout:
		return s.handleSetActiveLayout(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")
	if s.deps.Reload == nil {
		return NewErrorResponse("reload is not supported")
	}
	if err := s.deps.Reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	log.Println("IPC: Config reloaded successfully")
	return okResponse(nil)
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		DragModifier:  "none",
	}
	if s.deps.Config != nil {
		if cfg := s.deps.Config(); cfg != nil {
			if key, enabled := cfg.DragModifier(); enabled {
				status.DragModifier = key.String()
			}
			status.DragOverlay = cfg.ShowDragOverlay()
		}
	}
	if id, found, err := s.deps.Store.ActiveLayoutID(); err == nil && found {
		status.ActiveLayoutID = id
		if l, ok, err := s.deps.Store.Layout(id); err == nil && ok {
			status.ActiveLayoutName = l.Name
		}
	}
	if last, found := s.deps.Snapper.Last(); found {
		status.LastAction = &last
	}
	return okResponse(status)
}

func (s *Server) handleGetScreens() *Response {
	displays, err := s.deps.Displays.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get screens: %v", err))
	}
	data := ScreensData{Screens: make([]ScreenInfo, len(displays))}
	for i, d := range displays {
		data.Screens[i] = ScreenInfo{Index: i, ID: d.ID, Name: d.Name, Bounds: d.Bounds, Usable: d.Usable}
	}
	return okResponse(data)
}

func (s *Server) handleApplyAction(payload json.RawMessage) *Response {
	var action layout.Action
	if err := json.Unmarshal(payload, &action); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid action payload: %v", err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := s.deps.Snapper.Apply(ctx, action); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply %s: %v", action, err))
	}
	if action.Kind == layout.ActivateLayout {
		return okResponse(nil)
	}
	if last, found := s.deps.Snapper.Last(); found {
		return okResponse(last)
	}
	return okResponse(nil)
}

func (s *Server) handleListZoneLayouts() *Response {
	layouts, err := s.deps.Store.List()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list zone layouts: %v", err))
	}
	data := ZoneLayoutsData{Layouts: layouts}
	if id, found, err := s.deps.Store.ActiveLayoutID(); err == nil && found {
		data.ActiveLayoutID = id
	}
	return okResponse(data)
}

func decodeID(payload json.RawMessage) (string, error) {
	var req LayoutIDPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return "", fmt.Errorf("invalid payload: %w", err)
	}
	return req.ID, nil
}

func (s *Server) handleGetZoneLayout(payload json.RawMessage) *Response {
	id, err := decodeID(payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	l, found, err := s.deps.Store.Layout(id)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to read zone layout: %v", err))
	}
	if !found {
		return NewErrorResponse(fmt.Sprintf("Unknown zone layout: %s", id))
	}
	return okResponse(l)
}

func (s *Server) handleSaveZoneLayout(payload json.RawMessage) *Response {
	var l zones.Layout
	if err := json.Unmarshal(payload, &l); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid zone layout payload: %v", err))
	}
	if err := s.deps.Store.Save(l); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to save zone layout: %v", err))
	}
	return okResponse(nil)
}

func (s *Server) handleDeleteZoneLayout(payload json.RawMessage) *Response {
	id, err := decodeID(payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.deps.Store.Delete(id); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to delete zone layout: %v", err))
	}
	return okResponse(nil)
}

func (s *Server) handleSetActiveLayout(payload json.RawMessage) *Response {
	id, err := decodeID(payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if id == "" {
		err = s.deps.Store.ClearActive()
	} else {
		err = s.deps.Store.SetActive(id)
	}
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set active layout: %v", err))
	}
	return okResponse(nil)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
