package overlay

import (
	"testing"

	"github.com/1broseidon/snapzone/internal/zones"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#3498db", 0x3498db, false},
		{"2C3E50", 0x2c3e50, false},
		{"#fff", 0, true},
		{"#zzzzzz", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseColor(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseColor(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label(2); got != "zone-overlay-2" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestSetColors(t *testing.T) {
	s := NewX11Surface(nil, 0, DefaultZoneColor, DefaultHighlightColor, nil)
	s.SetColors(0x111111, 0x222222)
	if s.color != 0x111111 || s.highlight != 0x222222 {
		t.Fatalf("colors not replaced: %#x %#x", s.color, s.highlight)
	}
}

func TestOpacityValue(t *testing.T) {
	tests := []struct {
		in   float64
		want uint
	}{
		{0, 0},
		{1, 0xffffffff},
		{0.5, 0x7fffffff},
		{-0.2, 0},
		{1.7, 0xffffffff},
	}
	for _, tt := range tests {
		if got := opacityValue(tt.in); got != tt.want {
			t.Fatalf("opacityValue(%v) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestExposeLookup(t *testing.T) {
	s := NewX11Surface(nil, 0, DefaultZoneColor, DefaultHighlightColor, nil)
	lit := &zoneWindow{win: 11, zone: zones.Zone{Number: 1}, lit: true}
	plain := &zoneWindow{win: 12, zone: zones.Zone{Number: 2}}
	s.previews[Label(0)] = &preview{windows: []*zoneWindow{lit, plain}, mapped: true}
	s.previews[Label(1)] = &preview{windows: []*zoneWindow{{win: 13}}}

	if zw := s.lookup(12); zw != plain {
		t.Fatalf("expected zone 2 window, got %+v", zw)
	}
	if zw := s.lookup(13); zw != nil {
		t.Fatalf("expected unmapped preview to be skipped, got %+v", zw)
	}
	if zw := s.lookup(99); zw != nil {
		t.Fatalf("expected no window for unknown id, got %+v", zw)
	}
	if got := s.fill(lit); got != DefaultHighlightColor {
		t.Fatalf("lit zone must redraw with the highlight, got %#x", got)
	}
	if got := s.fill(plain); got != DefaultZoneColor {
		t.Fatalf("plain zone must redraw with the zone color, got %#x", got)
	}
}
