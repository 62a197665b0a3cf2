package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/snapzone/internal/ipc"
	"github.com/1broseidon/snapzone/internal/layout"
	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/snap"
	"github.com/1broseidon/snapzone/internal/zones"
)

type fakeDaemon struct {
	layouts   []zones.Layout
	active    string
	applied   []layout.Action
	applyErr  error
	setActive []string
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{DaemonRunning: true, ActiveLayoutID: f.active, DragModifier: "super"}, nil
}

func (f *fakeDaemon) GetScreens() (*ipc.ScreensData, error) {
	return &ipc.ScreensData{Screens: []ipc.ScreenInfo{{Index: 0, Name: "DP-1"}}}, nil
}

func (f *fakeDaemon) ApplyAction(a layout.Action) (*snap.Result, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	f.applied = append(f.applied, a)
	return &snap.Result{Action: a.String(), Window: 9, Target: platform.Rect{Width: 960, Height: 1080}}, nil
}

func (f *fakeDaemon) ListZoneLayouts() (*ipc.ZoneLayoutsData, error) {
	return &ipc.ZoneLayoutsData{Layouts: f.layouts, ActiveLayoutID: f.active}, nil
}

func (f *fakeDaemon) SetActiveLayout(id string) error {
	f.setActive = append(f.setActive, id)
	f.active = id
	return nil
}

func newTestServer(d *fakeDaemon) *Server {
	return &Server{daemon: d}
}

func TestApplyAction_ParsesTextForm(t *testing.T) {
	d := &fakeDaemon{}
	s := newTestServer(d)

	_, out, err := s.handleApplyAction(context.Background(), nil, ApplyActionInput{Action: "apply-zone:2"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(d.applied) != 1 || d.applied[0].Kind != layout.ApplyZone || d.applied[0].ZoneNumber != 2 {
		t.Fatalf("unexpected applied actions %+v", d.applied)
	}
	if out.Window != 9 || out.Target.Width != 960 {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestApplyAction_RejectsUnknownName(t *testing.T) {
	d := &fakeDaemon{}
	s := newTestServer(d)

	_, _, err := s.handleApplyAction(context.Background(), nil, ApplyActionInput{Action: "maximise"})
	if err == nil || !strings.Contains(err.Error(), "maximize") {
		t.Fatalf("expected suggestion error, got %v", err)
	}
	if len(d.applied) != 0 {
		t.Fatalf("daemon must not be called for invalid actions")
	}
}

func TestApplyAction_PropagatesDaemonError(t *testing.T) {
	s := newTestServer(&fakeDaemon{applyErr: errors.New("daemon error: no window")})
	if _, _, err := s.handleApplyAction(context.Background(), nil, ApplyActionInput{Action: "center"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestListActions_SplitsParameterized(t *testing.T) {
	s := newTestServer(&fakeDaemon{})
	_, out, err := s.handleListActions(context.Background(), nil, ListActionsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, name := range out.Actions {
		if name == "apply-zone" || name == "activate-layout" {
			t.Fatalf("parameterized action %q listed as plain", name)
		}
	}
	if len(out.Parameterized) != 2 || !strings.HasPrefix(out.Parameterized[0], "apply-zone:") {
		t.Fatalf("unexpected parameterized list %v", out.Parameterized)
	}
}

func TestSetActiveLayout_ResolvesByIDOrName(t *testing.T) {
	d := &fakeDaemon{layouts: []zones.Layout{
		{ID: "a1", Name: "Coding"},
		{ID: "b2", Name: "Reading"},
		{ID: "c3", Name: "reading"},
	}}
	s := newTestServer(d)

	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{ref: "a1", want: "a1"},
		{ref: "coding", want: "a1"},
		{ref: "Reading", wantErr: true},
		{ref: "missing", wantErr: true},
	}
	for _, tt := range tests {
		_, out, err := s.handleSetActiveLayout(context.Background(), nil, SetActiveLayoutInput{Layout: tt.ref})
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.ref)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.ref, err)
			continue
		}
		if out.ActiveLayoutID != tt.want {
			t.Errorf("%q: got %q, want %q", tt.ref, out.ActiveLayoutID, tt.want)
		}
	}
}

func TestSetActiveLayout_EmptyClears(t *testing.T) {
	d := &fakeDaemon{active: "a1"}
	s := newTestServer(d)

	_, out, err := s.handleSetActiveLayout(context.Background(), nil, SetActiveLayoutInput{})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !out.Cleared || len(d.setActive) != 1 || d.setActive[0] != "" {
		t.Fatalf("expected clear call, got %+v %v", out, d.setActive)
	}
}

func TestListZoneLayouts_MarksActive(t *testing.T) {
	d := &fakeDaemon{
		active: "b2",
		layouts: []zones.Layout{
			{ID: "a1", Name: "One", Zones: []zones.Zone{{Number: 1}}},
			{ID: "b2", Name: "Two", Zones: []zones.Zone{{Number: 1}, {Number: 2}}},
		},
	}
	s := newTestServer(d)

	_, out, err := s.handleListZoneLayouts(context.Background(), nil, ListZoneLayoutsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Layouts) != 2 || out.Layouts[0].Active || !out.Layouts[1].Active {
		t.Fatalf("unexpected summaries %+v", out.Layouts)
	}
	if len(out.Layouts[1].Zones) != 2 {
		t.Fatalf("expected zone numbers, got %v", out.Layouts[1].Zones)
	}
}

func TestNewServer_RegistersWithoutPanic(t *testing.T) {
	if NewServer(&fakeDaemon{}) == nil {
		t.Fatalf("expected server")
	}
}

func TestGetStatus_FlattensLastAction(t *testing.T) {
	s := newTestServer(&fakeDaemon{active: "a1"})
	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !out.DaemonRunning || out.ActiveLayoutID != "a1" || out.LastAction != "" {
		t.Fatalf("unexpected status %+v", out)
	}
}
