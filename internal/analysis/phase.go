package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/neurosim/internal/experiment"
)

type Point struct{ X, Y float64 }

// PhasePlane is the trajectory of one batch element projected onto two
// states, such as v against a gating variable.
type PhasePlane struct {
	XName, YName string
	Points       []Point
}

func NewPhasePlane(r *experiment.Result, x, y string, elem int) (*PhasePlane, error) {
	if elem < 0 || elem >= r.Batch {
		return nil, fmt.Errorf("batch element %d out of range [0, %d)", elem, r.Batch)
	}
	xs, ys := r.Series(x, elem), r.Series(y, elem)
	if xs == nil {
		return nil, fmt.Errorf("unknown state %q", x)
	}
	if ys == nil {
		return nil, fmt.Errorf("unknown state %q", y)
	}

	p := &PhasePlane{XName: x, YName: y, Points: make([]Point, len(xs))}
	for i := range xs {
		p.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return p, nil
}

// Bounds returns the extent of the trajectory.
func (p *PhasePlane) Bounds() (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return
}

// Render draws the trajectory on a width×height character grid, y up.
func (p *PhasePlane) Render(width, height int) string {
	if len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}
	minX, maxX, minY, maxY := p.Bounds()
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for _, pt := range p.Points {
		col := int(math.Round((pt.X - minX) / spanX * float64(width-1)))
		row := height - 1 - int(math.Round((pt.Y-minY)/spanY*float64(height-1)))
		grid[row][col] = '•'
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s ∈ [%.3g, %.3g]\n", p.YName, minY, maxY)
	for _, row := range grid {
		sb.WriteString("│")
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	sb.WriteString("└" + strings.Repeat("─", width) + "\n")
	fmt.Fprintf(&sb, " %s ∈ [%.3g, %.3g]\n", p.XName, minX, maxX)
	return sb.String()
}
