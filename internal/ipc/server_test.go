package ipc

import (
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/1broseidon/snapzone/internal/config"
	"github.com/1broseidon/snapzone/internal/layout"
	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/platform/platformtest"
	"github.com/1broseidon/snapzone/internal/screen"
	"github.com/1broseidon/snapzone/internal/snap"
	"github.com/1broseidon/snapzone/internal/zones"
)

type fixture struct {
	client  *Client
	backend *platformtest.Backend
	store   *zones.Store
	reloads atomic.Int32
}

func startServer(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		backend: platformtest.New(42, platform.Rect{X: 10, Y: 10, Width: 400, Height: 300},
			platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
			platform.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}),
		store: zones.NewStore(filepath.Join(dir, "zone_layouts.json")),
	}
	svc := snap.NewService(f.backend, screen.NewResolver(f.backend), layout.NewEngine(), f.store, nil)
	cfg := config.DefaultConfig()
	cfg.Drag.ModifierKey = "alt"

	socket := filepath.Join(dir, "s.sock")
	srv := NewServer(socket, Deps{
		Snapper:  svc,
		Store:    f.store,
		Displays: f.backend,
		Config:   func() *config.Config { return cfg },
		Reload: func() error {
			f.reloads.Add(1)
			return nil
		},
	})
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	f.client = NewClientAt(socket)
	return f
}

func TestServer_ApplyActionMovesFrontmostWindow(t *testing.T) {
	f := startServer(t)

	res, err := f.client.ApplyAction(layout.Simple(layout.LeftHalf))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := platform.Rect{X: 0, Y: 0, Width: 960, Height: 1080}
	if res.Target != want || res.Window != 42 {
		t.Fatalf("expected window 42 at %+v, got %+v", want, res)
	}

	status, err := f.client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.LastAction == nil || status.LastAction.Action != "left-half" {
		t.Fatalf("expected last action in status, got %+v", status.LastAction)
	}
	if status.DragModifier != "alt" || !status.DaemonRunning {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestServer_ApplyZoneWithoutActiveLayoutFails(t *testing.T) {
	f := startServer(t)

	_, err := f.client.ApplyAction(layout.Zone(1))
	if err == nil || !strings.Contains(err.Error(), "no active zone layout") {
		t.Fatalf("expected missing layout error, got %v", err)
	}
	if n := len(f.backend.MoveCalls()); n != 0 {
		t.Fatalf("expected window untouched, got %d moves", n)
	}
}

func TestServer_ZoneLayoutLifecycle(t *testing.T) {
	f := startServer(t)

	l, err := zones.FromPreset("Two", "columns:2")
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	if err := f.client.SaveZoneLayout(l); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := f.client.SetActiveLayout(l.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}

	list, err := f.client.ListZoneLayouts()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Layouts) != 1 || list.ActiveLayoutID != l.ID {
		t.Fatalf("unexpected list %+v", list)
	}

	got, err := f.client.GetZoneLayout(l.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Zones) != 2 || got.Name != "Two" {
		t.Fatalf("unexpected layout %+v", got)
	}

	res, err := f.client.ApplyAction(layout.Zone(2))
	if err != nil {
		t.Fatalf("apply zone: %v", err)
	}
	if want := (platform.Rect{X: 960, Y: 0, Width: 960, Height: 1080}); res.Target != want {
		t.Fatalf("expected %+v, got %+v", want, res.Target)
	}

	if err := f.client.SetActiveLayout(""); err != nil {
		t.Fatalf("clear active: %v", err)
	}
	if _, found, _ := f.store.ActiveLayoutID(); found {
		t.Fatalf("expected active layout cleared")
	}

	if err := f.client.DeleteZoneLayout(l.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.client.GetZoneLayout(l.ID); err == nil {
		t.Fatalf("expected unknown layout after delete")
	}
}

func TestServer_SetActiveUnknownLayoutFails(t *testing.T) {
	f := startServer(t)
	if err := f.client.SetActiveLayout("missing"); err == nil {
		t.Fatalf("expected error for unknown layout")
	}
}

func TestServer_GetScreensKeepsOrder(t *testing.T) {
	f := startServer(t)

	data, err := f.client.GetScreens()
	if err != nil {
		t.Fatalf("screens: %v", err)
	}
	if len(data.Screens) != 2 {
		t.Fatalf("expected 2 screens, got %d", len(data.Screens))
	}
	if data.Screens[1].Index != 1 || data.Screens[1].Bounds.X != 1920 {
		t.Fatalf("unexpected second screen %+v", data.Screens[1])
	}
}

func TestServer_ReloadAndUnknownCommand(t *testing.T) {
	f := startServer(t)

	if err := f.client.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if n := f.reloads.Load(); n != 1 {
		t.Fatalf("expected reload hook called once, got %d", n)
	}

	err := f.client.send(CommandType("NOPE"), nil, nil)
	if err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestServer_InvalidActionPayload(t *testing.T) {
	f := startServer(t)

	err := f.client.send(CommandApplyAction, map[string]string{"action": "sideways"}, nil)
	if err == nil || !strings.Contains(err.Error(), "Invalid action payload") {
		t.Fatalf("expected payload error, got %v", err)
	}
}

func TestClient_NoDaemon(t *testing.T) {
	c := NewClientAt(filepath.Join(t.TempDir(), "absent.sock"))
	err := c.Ping()
	if err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
