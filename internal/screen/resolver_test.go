package screen

import (
	"errors"
	"testing"

	"github.com/1broseidon/snapzone/internal/platform"
)

type fakeDisplays struct {
	displays []platform.Display
	err      error
}

func (f fakeDisplays) Displays() ([]platform.Display, error) {
	return f.displays, f.err
}

func sideBySide() fakeDisplays {
	left := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	return fakeDisplays{displays: []platform.Display{
		{ID: 0, Name: "DP-1", Bounds: left, Usable: platform.Rect{X: 0, Y: 32, Width: 1920, Height: 1048}},
		{ID: 1, Name: "DP-2", Bounds: right, Usable: right},
	}}
}

func TestBestScreenForRect_SideBySide(t *testing.T) {
	r := NewResolver(sideBySide())

	tests := []struct {
		name    string
		rect    platform.Rect
		wantIdx int
	}{
		{"fully left", platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}, 0},
		{"fully right", platform.Rect{X: 2000, Y: 100, Width: 800, Height: 600}, 1},
		{"mostly right", platform.Rect{X: 1800, Y: 100, Width: 800, Height: 600}, 1},
		{"mostly left", platform.Rect{X: 1500, Y: 100, Width: 800, Height: 600}, 0},
		{"exact tie", platform.Rect{X: 1520, Y: 100, Width: 800, Height: 600}, 0},
		{"offscreen", platform.Rect{X: -5000, Y: -5000, Width: 10, Height: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, idx, err := r.BestScreenForRect(tt.rect)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if idx != tt.wantIdx {
				t.Fatalf("expected screen %d, got %d", tt.wantIdx, idx)
			}
		})
	}
}

func TestAllScreens_UsesUsableArea(t *testing.T) {
	screens, err := NewResolver(sideBySide()).AllScreens()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(screens) != 2 {
		t.Fatalf("expected 2 screens, got %d", len(screens))
	}
	if screens[0].Y != 32 || screens[0].Height != 1048 {
		t.Fatalf("expected panel-adjusted first screen, got %+v", screens[0])
	}
}

func TestBestScreenForRect_SingleScreenAlwaysWins(t *testing.T) {
	only := platform.Rect{X: 0, Y: 0, Width: 1280, Height: 720}
	r := NewResolver(fakeDisplays{displays: []platform.Display{{Bounds: only, Usable: only}}})

	scr, idx, err := r.BestScreenForRect(platform.Rect{X: 9000, Y: 9000, Width: 5, Height: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 0 || scr != only {
		t.Fatalf("expected the only screen, got %d %+v", idx, scr)
	}
}

func TestBestScreenForRect_NoScreens(t *testing.T) {
	_, _, err := NewResolver(fakeDisplays{}).BestScreenForRect(platform.Rect{Width: 1, Height: 1})
	if !errors.Is(err, platform.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIndexOf(t *testing.T) {
	r := NewResolver(sideBySide())
	if got := r.IndexOf(platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := r.IndexOf(platform.Rect{X: 1, Y: 1, Width: 1, Height: 1}); got != 0 {
		t.Fatalf("expected default 0, got %d", got)
	}
}
