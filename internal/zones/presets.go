package zones

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const maxPresetCells = 12

// PresetNames lists the accepted preset forms for usage text.
var PresetNames = []string{"columns:N", "rows:N", "grid:RxC", "priority"}

// FromPreset builds a new layout with fresh ids. Zones are numbered
// left-to-right, top-to-bottom starting at 1.
func FromPreset(name, preset string) (Layout, error) {
	kind, arg, _ := strings.Cut(strings.ToLower(strings.TrimSpace(preset)), ":")

	var boxes [][4]float64
	switch kind {
	case "columns":
		n, err := presetCount(arg)
		if err != nil {
			return Layout{}, err
		}
		boxes = gridBoxes(1, n)
	case "rows":
		n, err := presetCount(arg)
		if err != nil {
			return Layout{}, err
		}
		boxes = gridBoxes(n, 1)
	case "grid":
		rs, cs, ok := strings.Cut(arg, "x")
		if !ok {
			return Layout{}, fmt.Errorf("grid preset must look like grid:2x3")
		}
		rows, err := presetCount(rs)
		if err != nil {
			return Layout{}, err
		}
		cols, err := presetCount(cs)
		if err != nil {
			return Layout{}, err
		}
		if rows*cols > maxPresetCells {
			return Layout{}, fmt.Errorf("grid %dx%d has more than %d zones", rows, cols, maxPresetCells)
		}
		boxes = gridBoxes(rows, cols)
	case "priority":
		boxes = [][4]float64{{0, 0, 25, 100}, {25, 0, 50, 100}, {75, 0, 25, 100}}
	default:
		return Layout{}, fmt.Errorf("unknown preset %q (want one of %s)", preset, strings.Join(PresetNames, ", "))
	}

	if strings.TrimSpace(name) == "" {
		name = preset
	}
	l := Layout{ID: uuid.NewString(), Name: name}
	for i, b := range boxes {
		l.Zones = append(l.Zones, Zone{
			ID:     uuid.NewString(),
			X:      b[0],
			Y:      b[1],
			Width:  b[2],
			Height: b[3],
			Number: uint32(i + 1),
		})
	}
	return l, nil
}

func presetCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid preset count %q", s)
	}
	if n < 1 || n > maxPresetCells {
		return 0, fmt.Errorf("preset count must be between 1 and %d", maxPresetCells)
	}
	return n, nil
}

func gridBoxes(rows, cols int) [][4]float64 {
	w := 100.0 / float64(cols)
	h := 100.0 / float64(rows)
	boxes := make([][4]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			boxes = append(boxes, [4]float64{float64(c) * w, float64(r) * h, w, h})
		}
	}
	return boxes
}
