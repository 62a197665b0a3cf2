package x11

import (
	"errors"
	"testing"
)

func TestMoveResize_ReportsOnlyWhenBothPathsFail(t *testing.T) {
	errWM := errors.New("no window manager")
	errDirect := errors.New("BadWindow")

	tests := []struct {
		name       string
		wmErr      error
		directErr  error
		wantDirect bool
		wantErr    error
	}{
		{"wm accepts", nil, errDirect, false, nil},
		{"fallback accepts", errWM, nil, true, nil},
		{"both fail", errWM, errDirect, true, errDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calledDirect := false
			err := moveResize(
				func() error { return tt.wmErr },
				func() error { calledDirect = true; return tt.directErr },
			)
			if calledDirect != tt.wantDirect {
				t.Fatalf("expected direct call %v, got %v", tt.wantDirect, calledDirect)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error wrapping %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigureValues(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
		want       []uint32
	}{
		{"plain", 960, 0, 960, 1080, []uint32{960, 0, 960, 1080}},
		{"left of origin", -1920, -10, 800, 600, []uint32{uint32(0xFFFFFFFF - 1919), uint32(0xFFFFFFFF - 9), 800, 600}},
		{"empty size", 0, 0, 0, -5, []uint32{0, 0, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := configureValues(tt.x, tt.y, tt.w, tt.h)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}
