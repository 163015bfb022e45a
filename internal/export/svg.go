// Package export renders traces as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/neurosim/internal/analysis"
)

// Palette colors the paths of successive batch elements.
var Palette = []string{"#00ff88", "#ffd700", "#00a8cc", "#ff9ff3", "#ff6b6b", "#ffffff"}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b *bounds) add(x, y float64) {
	b.minX, b.maxX = math.Min(b.minX, x), math.Max(b.maxX, x)
	b.minY, b.maxY = math.Min(b.minY, y), math.Max(b.maxY, y)
}

// pad widens each axis by 10%, or to a unit span when it is flat.
func (b *bounds) pad() {
	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
}

func newBounds() bounds {
	return bounds{minX: math.Inf(1), maxX: math.Inf(-1), minY: math.Inf(1), maxY: math.Inf(-1)}
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

func path(sb *strings.Builder, b bounds, width, height int, color string, n int, at func(i int) (float64, float64)) {
	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
	for i := 0; i < n; i++ {
		px, py := at(i)
		x := (px - b.minX) / rangeX * float64(width)
		y := float64(height) - (py-b.minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

// TraceSVG plots one or more series against times, one path per series.
// Series shorter than two samples or longer than times are skipped.
func TraceSVG(times []float64, series [][]float64, caption string, width, height int) string {
	b := newBounds()
	drawn := 0
	for _, s := range series {
		if len(s) < 2 || len(s) > len(times) {
			continue
		}
		for i, y := range s {
			b.add(times[i], y)
		}
		drawn++
	}
	if drawn == 0 {
		return ""
	}
	b.pad()

	var sb strings.Builder
	header(&sb, width, height)
	color := 0
	for _, s := range series {
		if len(s) < 2 || len(s) > len(times) {
			continue
		}
		path(&sb, b, width, height, Palette[color%len(Palette)], len(s), func(i int) (float64, float64) {
			return times[i], s[i]
		})
		color++
	}
	if caption != "" {
		fmt.Fprintf(&sb, `<text x="8" y="16" fill="#888888" font-family="monospace" font-size="12">%s</text>`+"\n", caption)
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// PhaseSVG draws a phase-plane trajectory.
func PhaseSVG(p *analysis.PhasePlane, width, height int) string {
	if len(p.Points) < 2 {
		return ""
	}
	b := newBounds()
	for _, pt := range p.Points {
		b.add(pt.X, pt.Y)
	}
	b.pad()

	var sb strings.Builder
	header(&sb, width, height)
	path(&sb, b, width, height, Palette[0], len(p.Points), func(i int) (float64, float64) {
		return p.Points[i].X, p.Points[i].Y
	})
	fmt.Fprintf(&sb, `<text x="8" y="16" fill="#888888" font-family="monospace" font-size="12">%s vs %s</text>`+"\n", p.YName, p.XName)
	sb.WriteString("</svg>\n")
	return sb.String()
}
