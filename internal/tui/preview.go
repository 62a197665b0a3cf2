package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/zones"
)

// previewScreen is the reference monitor used for pixel summaries.
var previewScreen = platform.Rect{Width: 1920, Height: 1080}

func summarizeLayout(l *zones.Layout) string {
	if l == nil {
		return ""
	}
	if len(l.Zones) == 0 {
		return "no zones"
	}
	nums := make([]int, 0, len(l.Zones))
	for _, z := range l.Zones {
		nums = append(nums, int(z.Number))
	}
	sort.Ints(nums)
	first := l.Zones[0].Abs(previewScreen)
	return fmt.Sprintf("%d zones • numbers %v • zone %d is %d×%d at 1920×1080",
		len(l.Zones), nums, l.Zones[0].Number, first.Width, first.Height)
}

// renderASCIIPreview draws each zone as a box on a width×height canvas,
// labelled with its number. Later zones overdraw earlier ones.
func renderASCIIPreview(l *zones.Layout, width, height int) []string {
	if l == nil || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Zones are percentages; scale onto the inner area of the border.
	inner := platform.Rect{X: 1, Y: 1, Width: width - 2, Height: height - 2}
	for _, z := range l.Zones {
		r := z.Abs(platform.Rect{Width: inner.Width, Height: inner.Height})
		r.X += inner.X
		r.Y += inner.Y
		drawZone(canvas, r, z.Number)
	}
	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawZone(canvas [][]rune, r platform.Rect, num uint32) {
	h := len(canvas)
	w := len(canvas[0])
	x1, y1 := max(r.X, 1), max(r.Y, 1)
	x2, y2 := min(r.X+r.Width-1, w-2), min(r.Y+r.Height-1, h-2)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	// Clear the interior so overlapping zones stay readable.
	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			canvas[y][x] = ' '
		}
	}

	cy, cx := (y1+y2)/2, (x1+x2)/2
	if cy <= y1 || cy >= y2 {
		return
	}
	label := fmt.Sprintf("%d", num)
	start := cx - len(label)/2
	for i, ch := range label {
		if x := start + i; x > x1 && x < x2 {
			canvas[cy][x] = ch
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
