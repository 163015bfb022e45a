package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

type PlotOptions struct {
	Width   int
	Height  int
	Caption string
}

func (o PlotOptions) withDefaults() PlotOptions {
	if o.Width <= 0 {
		o.Width = 70
	}
	if o.Height <= 0 {
		o.Height = 15
	}
	return o
}

// Downsample reduces series to at most n points, keeping the extreme value
// of each bucket so that spikes survive.
func Downsample(series []float64, n int) []float64 {
	if n <= 0 || len(series) <= n {
		return series
	}
	out := make([]float64, n)
	for i := range out {
		lo, hi := i*len(series)/n, (i+1)*len(series)/n
		mean := 0.0
		for _, x := range series[lo:hi] {
			mean += x
		}
		mean /= float64(hi - lo)

		best := series[lo]
		for _, x := range series[lo:hi] {
			if math.Abs(x-mean) > math.Abs(best-mean) {
				best = x
			}
		}
		out[i] = best
	}
	return out
}

// PlotTrace renders one series as an ASCII line chart.
func PlotTrace(series []float64, opts PlotOptions) string {
	if len(series) == 0 {
		return ""
	}
	opts = opts.withDefaults()
	return asciigraph.Plot(Downsample(series, opts.Width),
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(opts.Caption))
}

var batchColors = []asciigraph.AnsiColor{
	asciigraph.Green, asciigraph.Yellow, asciigraph.Cyan,
	asciigraph.Magenta, asciigraph.Red, asciigraph.Blue,
}

// PlotBatch overlays several series, one color per batch element.
func PlotBatch(series [][]float64, opts PlotOptions) string {
	if len(series) == 0 {
		return ""
	}
	opts = opts.withDefaults()

	data := make([][]float64, len(series))
	colors := make([]asciigraph.AnsiColor, len(series))
	for i, s := range series {
		data[i] = Downsample(s, opts.Width)
		colors[i] = batchColors[i%len(batchColors)]
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(opts.Caption),
		asciigraph.SeriesColors(colors...))
}
