package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/neurosim/internal/analysis"
)

func TestTraceSVG(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	out := TraceSVG(times, [][]float64{{0, 1, 0, 1}, {1, 1, 1, 1}}, "v", 200, 100)

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.Contains(t, out, Palette[0])
	assert.Contains(t, out, Palette[1])
	assert.Contains(t, out, ">v</text>")
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestTraceSVGSkipsUnusable(t *testing.T) {
	assert.Empty(t, TraceSVG([]float64{0, 1}, [][]float64{{1}}, "", 100, 100))
	assert.Empty(t, TraceSVG([]float64{0}, [][]float64{{1, 2}}, "", 100, 100))

	out := TraceSVG([]float64{0, 1}, [][]float64{{1}, {2, 3}}, "", 100, 100)
	assert.Equal(t, 1, strings.Count(out, "<path"))
}

func TestTraceSVGStaysInViewBox(t *testing.T) {
	out := TraceSVG([]float64{0, 1, 2}, [][]float64{{-65, 40, -70}}, "", 100, 50)
	assert.NotContains(t, out, "NaN")
	for _, neg := range []string{"M-", "L-", ",-"} {
		assert.NotContains(t, out, neg)
	}
}

func TestPhaseSVG(t *testing.T) {
	p := &analysis.PhasePlane{XName: "v", YName: "n", Points: []analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}}
	out := PhaseSVG(p, 100, 100)
	assert.Equal(t, 1, strings.Count(out, "<path"))
	assert.Contains(t, out, "n vs v")

	assert.Empty(t, PhaseSVG(&analysis.PhasePlane{}, 100, 100))
}
