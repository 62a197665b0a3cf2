package zones

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/snapzone/internal/platform"
)

func twoColumns() Layout {
	return Layout{
		ID:   "halves",
		Name: "Halves",
		Zones: []Zone{
			{ID: "a", X: 0, Y: 0, Width: 50, Height: 100, Number: 1},
			{ID: "b", X: 50, Y: 0, Width: 50, Height: 100, Number: 2},
		},
	}
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "zone_layouts.json"))

	layouts, err := s.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layouts) != 0 {
		t.Fatalf("expected no layouts, got %d", len(layouts))
	}
	if _, ok, err := s.ActiveLayoutID(); err != nil || ok {
		t.Fatalf("expected no active id, got ok=%v err=%v", ok, err)
	}
}

func TestStore_SaveUpsertsByID(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "zone_layouts.json"))

	if err := s.Save(twoColumns()); err != nil {
		t.Fatalf("save: %v", err)
	}
	renamed := twoColumns()
	renamed.Name = "Two columns"
	if err := s.Save(renamed); err != nil {
		t.Fatalf("save: %v", err)
	}

	layouts, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(layouts) != 1 {
		t.Fatalf("expected 1 layout after upsert, got %d", len(layouts))
	}
	if layouts[0].Name != "Two columns" {
		t.Fatalf("expected replaced name, got %q", layouts[0].Name)
	}
}

func TestStore_ActiveLifecycle(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "zone_layouts.json"))
	if err := s.Save(twoColumns()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.SetActive("missing"); !errors.Is(err, platform.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown layout, got %v", err)
	}
	if err := s.SetActive("halves"); err != nil {
		t.Fatalf("set active: %v", err)
	}

	active, err := s.Active()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active == nil || active.ID != "halves" {
		t.Fatalf("expected halves active, got %+v", active)
	}

	if err := s.Delete("halves"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.ActiveLayoutID(); ok {
		t.Fatalf("expected active id cleared after deleting active layout")
	}
}

func TestStore_ReadsWireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zone_layouts.json")
	content := `{
  "layouts": [
    {"id": "l1", "name": "Wide", "screenWidth": 2560, "screenHeight": 1440,
     "zones": [{"id": "z1", "x": 0, "y": 0, "width": 70, "height": 100, "number": 1}]}
  ],
  "active_layout_id": "l1"
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	l, err := NewStore(path).Active()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if l == nil || l.ScreenWidth == nil || *l.ScreenWidth != 2560 {
		t.Fatalf("expected screenWidth 2560, got %+v", l)
	}
	if len(l.Zones) != 1 || l.Zones[0].Width != 70 {
		t.Fatalf("unexpected zones: %+v", l.Zones)
	}
}

func TestStore_MalformedFileIsFormatError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zone_layouts.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := NewStore(path).List()
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %T %v", err, err)
	}
	if fe.Path != path {
		t.Fatalf("expected path %q, got %q", path, fe.Path)
	}
}

func TestStore_SaveRejectsInvalidLayout(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "zone_layouts.json"))
	bad := twoColumns()
	bad.Zones[1].Width = 80
	if err := s.Save(bad); err == nil {
		t.Fatalf("expected validation error for zone leaving the screen")
	}
}
