package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/snapzone/internal/ipc"
	"github.com/1broseidon/snapzone/internal/layout"
)

func (s *Server) handleApplyAction(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyActionInput) (*mcpsdk.CallToolResult, ApplyActionOutput, error) {
	action, err := layout.ParseAction(args.Action)
	if err != nil {
		return nil, ApplyActionOutput{}, err
	}
	res, err := s.daemon.ApplyAction(action)
	if err != nil {
		return nil, ApplyActionOutput{}, err
	}
	out := ApplyActionOutput{Action: action.String()}
	if res != nil && action.Kind != layout.ActivateLayout {
		out.Window = res.Window
		out.Title = res.Title
		out.Target = res.Target
	}
	return nil, out, nil
}

func (s *Server) handleListActions(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListActionsInput) (*mcpsdk.CallToolResult, ListActionsOutput, error) {
	out := ListActionsOutput{
		Parameterized: []string{layout.ApplyZone.String() + ":<number>", layout.ActivateLayout.String() + ":<id>"},
	}
	for _, name := range layout.Names() {
		if name == layout.ApplyZone.String() || name == layout.ActivateLayout.String() {
			continue
		}
		out.Actions = append(out.Actions, name)
	}
	return nil, out, nil
}

func (s *Server) handleListScreens(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListScreensInput) (*mcpsdk.CallToolResult, ListScreensOutput, error) {
	data, err := s.daemon.GetScreens()
	if err != nil {
		return nil, ListScreensOutput{}, err
	}
	return nil, ListScreensOutput{Screens: data.Screens}, nil
}

func (s *Server) handleListZoneLayouts(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListZoneLayoutsInput) (*mcpsdk.CallToolResult, ListZoneLayoutsOutput, error) {
	data, err := s.daemon.ListZoneLayouts()
	if err != nil {
		return nil, ListZoneLayoutsOutput{}, err
	}
	out := ListZoneLayoutsOutput{
		ActiveLayoutID: data.ActiveLayoutID,
		Layouts:        make([]ZoneLayoutSummary, 0, len(data.Layouts)),
	}
	for _, l := range data.Layouts {
		sum := ZoneLayoutSummary{ID: l.ID, Name: l.Name, Zones: []uint32{}, Active: l.ID == data.ActiveLayoutID}
		for _, z := range l.Zones {
			sum.Zones = append(sum.Zones, z.Number)
		}
		out.Layouts = append(out.Layouts, sum)
	}
	return nil, out, nil
}

func (s *Server) handleSetActiveLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args SetActiveLayoutInput) (*mcpsdk.CallToolResult, SetActiveLayoutOutput, error) {
	ref := strings.TrimSpace(args.Layout)
	if ref == "" {
		if err := s.daemon.SetActiveLayout(""); err != nil {
			return nil, SetActiveLayoutOutput{}, err
		}
		return nil, SetActiveLayoutOutput{Cleared: true}, nil
	}

	data, err := s.daemon.ListZoneLayouts()
	if err != nil {
		return nil, SetActiveLayoutOutput{}, err
	}
	id, err := resolveLayoutRef(data, ref)
	if err != nil {
		return nil, SetActiveLayoutOutput{}, err
	}
	if err := s.daemon.SetActiveLayout(id); err != nil {
		return nil, SetActiveLayoutOutput{}, err
	}
	return nil, SetActiveLayoutOutput{ActiveLayoutID: id}, nil
}

// resolveLayoutRef matches an exact ID first, then a unique
// case-insensitive name.
func resolveLayoutRef(data *ipc.ZoneLayoutsData, ref string) (string, error) {
	for _, l := range data.Layouts {
		if l.ID == ref {
			return l.ID, nil
		}
	}
	var matches []string
	for _, l := range data.Layouts {
		if strings.EqualFold(l.Name, ref) {
			matches = append(matches, l.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no zone layout with id or name %q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("zone layout name %q is ambiguous (ids: %s)", ref, strings.Join(matches, ", "))
	}
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	out := GetStatusOutput{
		DaemonRunning:    status.DaemonRunning,
		UptimeSeconds:    status.UptimeSeconds,
		ActiveLayoutID:   status.ActiveLayoutID,
		ActiveLayoutName: status.ActiveLayoutName,
		DragModifier:     status.DragModifier,
		DragOverlay:      status.DragOverlay,
	}
	if last := status.LastAction; last != nil {
		out.LastAction = last.Action
		out.LastWindow = last.Window
		out.LastTarget = last.Target
		out.LastAt = last.Applied.Format(time.RFC3339)
	}
	return nil, out, nil
}
