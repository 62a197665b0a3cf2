package layout

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    Action
		wantErr string
	}{
		{in: "left-half", want: Simple(LeftHalf)},
		{in: "  Maximize ", want: Simple(Maximize)},
		{in: "apply-zone:3", want: Zone(3)},
		{in: "activate-layout:abc-123", want: Activate("abc-123")},
		{in: "apply-zone", wantErr: "needs a zone number"},
		{in: "apply-zone:x", wantErr: "invalid zone number"},
		{in: "activate-layout:", wantErr: "needs a layout id"},
		{in: "left-half:2", wantErr: "takes no argument"},
		{in: "left-halve", wantErr: `did you mean "left-half"`},
		{in: "zzzzzzzzzzzzzz", wantErr: "unknown action"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestActionJSON_WireShape(t *testing.T) {
	data, err := json.Marshal(Zone(2))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"action":"apply-zone","zone_number":2}` {
		t.Fatalf("unexpected wire form %s", data)
	}

	data, err = json.Marshal(Simple(TopLeftSixth))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"action":"top-left-sixth"}` {
		t.Fatalf("unexpected wire form %s", data)
	}
}

func TestActionJSON_DecodeIsExhaustive(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
		want    Action
	}{
		{in: `{"action":"activate-layout","layout_id":"L1"}`, want: Activate("L1")},
		{in: `{"action":"apply-zone","zone_number":0}`, want: Zone(0)},
		{in: `{"action":"apply-zone"}`, wantErr: true},
		{in: `{"action":"activate-layout"}`, wantErr: true},
		{in: `{"action":"tile-all"}`, wantErr: true},
		{in: `{}`, wantErr: true},
	}
	for _, tt := range tests {
		var a Action
		err := json.Unmarshal([]byte(tt.in), &a)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got %+v", tt.in, a)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.in, err)
			continue
		}
		if a != tt.want {
			t.Errorf("%s: expected %+v, got %+v", tt.in, tt.want, a)
		}
	}
}

func TestNamesCoverEveryKind(t *testing.T) {
	for k := LeftHalf; k <= ActivateLayout; k++ {
		if k.String() == "unknown" {
			t.Fatalf("kind %d has no name", int(k))
		}
	}
	if len(Names()) != int(ActivateLayout) {
		t.Fatalf("expected %d names, got %d", int(ActivateLayout), len(Names()))
	}
}
