package layout

import (
	"testing"

	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/zones"
)

var fullHD = platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

func TestCalculate_FixedFractions(t *testing.T) {
	current := platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}

	tests := []struct {
		kind Kind
		want platform.Rect
	}{
		{LeftHalf, platform.Rect{X: 0, Y: 0, Width: 960, Height: 1080}},
		{RightHalf, platform.Rect{X: 960, Y: 0, Width: 960, Height: 1080}},
		{CenterHalf, platform.Rect{X: 480, Y: 0, Width: 960, Height: 1080}},
		{TopHalf, platform.Rect{X: 0, Y: 0, Width: 1920, Height: 540}},
		{BottomHalf, platform.Rect{X: 0, Y: 540, Width: 1920, Height: 540}},
		{BottomRight, platform.Rect{X: 960, Y: 540, Width: 960, Height: 540}},
		{LastThird, platform.Rect{X: 1280, Y: 0, Width: 640, Height: 1080}},
		{LastTwoThirds, platform.Rect{X: 640, Y: 0, Width: 1280, Height: 1080}},
		{ThirdFourth, platform.Rect{X: 960, Y: 0, Width: 480, Height: 1080}},
		{LastThreeFourths, platform.Rect{X: 480, Y: 0, Width: 1440, Height: 1080}},
		{BottomCenterSixth, platform.Rect{X: 640, Y: 540, Width: 640, Height: 540}},
		{BottomRightThird, platform.Rect{X: 1280, Y: 0, Width: 640, Height: 1080}},
		{Maximize, fullHD},
		{MaximizeHeight, platform.Rect{X: 100, Y: 0, Width: 800, Height: 1080}},
		{AlmostMaximize, platform.Rect{X: 19, Y: 10, Width: 1881, Height: 1058}},
		{Center, platform.Rect{X: 560, Y: 240, Width: 800, Height: 600}},
		{CenterProminently, platform.Rect{X: 96, Y: 54, Width: 1728, Height: 972}},
		{Smaller, platform.Rect{X: 180, Y: 160, Width: 640, Height: 480}},
		{Larger, platform.Rect{X: 20, Y: 40, Width: 960, Height: 720}},
		{MoveRight, platform.Rect{X: 900, Y: 100, Width: 800, Height: 600}},
		{MoveDown, platform.Rect{X: 100, Y: 700, Width: 800, Height: 600}},
		{NextDisplay, current},
		{ActivateLayout, current},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got := NewEngine().Calculate(1, Simple(tt.kind), fullHD, current, nil)
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestCalculate_OriginClamped(t *testing.T) {
	current := platform.Rect{X: 50, Y: 30, Width: 800, Height: 600}
	got := NewEngine().Calculate(1, Simple(MoveLeft), fullHD, current, nil)
	if got.X != 0 {
		t.Fatalf("expected x clamped to 0, got %d", got.X)
	}
	got = NewEngine().Calculate(1, Simple(MoveUp), fullHD, current, nil)
	if got.Y != 0 {
		t.Fatalf("expected y clamped to 0, got %d", got.Y)
	}
	if got.Width != 800 || got.Height != 600 {
		t.Fatalf("clamp must not touch size, got %+v", got)
	}
}

func TestCalculate_SecondScreenOffset(t *testing.T) {
	right := platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	current := platform.Rect{X: 2000, Y: 100, Width: 800, Height: 600}
	e := NewEngine()

	got := e.Calculate(7, Simple(LeftHalf), right, current, nil)
	want := platform.Rect{X: 1920, Y: 0, Width: 960, Height: 1080}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	got = e.Calculate(7, Simple(MoveRight), right, got, nil)
	want = platform.Rect{X: 2880, Y: 0, Width: 960, Height: 1080}
	if got != want {
		t.Fatalf("expected move-right on second screen %+v, got %+v", want, got)
	}
}

func TestCalculate_RestoreIsIdempotent(t *testing.T) {
	e := NewEngine()
	current := platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}

	first := e.Calculate(3, Simple(Restore), fullHD, current, nil)
	if first != current {
		t.Fatalf("restore on fresh window should return seed %+v, got %+v", current, first)
	}

	placed := e.Calculate(3, Simple(LeftHalf), fullHD, current, nil)
	r1 := e.Calculate(3, Simple(Restore), fullHD, placed, nil)
	r2 := e.Calculate(3, Simple(Restore), fullHD, r1, nil)
	if r1 != r2 {
		t.Fatalf("restore not idempotent: %+v then %+v", r1, r2)
	}
	if hist, ok := e.History(3); !ok || hist != r2 {
		t.Fatalf("expected history %+v, got %+v ok=%v", r2, hist, ok)
	}
}

func TestCalculate_RestoreReturnsPreActionRect(t *testing.T) {
	original := platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}

	tests := []struct {
		name    string
		actions []Action
	}{
		{"after one placement", []Action{Simple(LeftHalf)}},
		{"after several placements", []Action{Simple(LeftHalf), Simple(Maximize), Simple(TopRight)}},
		{"after relative moves", []Action{Simple(RightHalf), Simple(Smaller), Simple(MoveLeft)}},
		{"after a zone", []Action{Zone(1), Simple(BottomHalf)}},
		{"after restore then placement", []Action{Simple(LeftHalf), Simple(Restore), Simple(RightHalf)}},
	}

	active := &zones.Layout{
		ID:    "single",
		Zones: []zones.Zone{{ID: "a", X: 0, Y: 0, Width: 50, Height: 50, Number: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			cur := original
			for _, a := range tt.actions {
				cur = e.Calculate(9, a, fullHD, cur, active)
			}
			r1 := e.Calculate(9, Simple(Restore), fullHD, cur, active)
			r2 := e.Calculate(9, Simple(Restore), fullHD, r1, active)
			if r1 != original || r2 != original {
				t.Fatalf("expected restore to return %+v twice, got %+v then %+v", original, r1, r2)
			}
		})
	}
}

func TestCalculate_ApplyZone(t *testing.T) {
	active := &zones.Layout{
		ID: "halves",
		Zones: []zones.Zone{
			{ID: "a", X: 0, Y: 0, Width: 50, Height: 100, Number: 1},
			{ID: "b", X: 50, Y: 0, Width: 50, Height: 100, Number: 2},
		},
	}
	current := platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}

	tests := []struct {
		name   string
		action Action
		layout *zones.Layout
		want   platform.Rect
	}{
		{"zone 1", Zone(1), active, platform.Rect{X: 0, Y: 0, Width: 960, Height: 1080}},
		{"zone 2", Zone(2), active, platform.Rect{X: 960, Y: 0, Width: 960, Height: 1080}},
		{"missing zone", Zone(9), active, current},
		{"no layout", Zone(1), nil, current},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewEngine().Calculate(1, tt.action, fullHD, current, tt.layout)
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
