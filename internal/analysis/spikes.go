package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DetectSpikes returns the indices at which trace crosses threshold going up.
func DetectSpikes(trace []float64, threshold float64) []int {
	var idx []int
	for i := 1; i < len(trace); i++ {
		if trace[i-1] < threshold && trace[i] >= threshold {
			idx = append(idx, i)
		}
	}
	return idx
}

// SpikeIndices returns the rows where a spike output equals 1.
func SpikeIndices(spike []float64) []int {
	var idx []int
	for i, s := range spike {
		if s == 1 {
			idx = append(idx, i)
		}
	}
	return idx
}

// SpikeTimes maps indices to times.
func SpikeTimes(times []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = times[j]
	}
	return out
}

// ISI summarizes inter-spike intervals.
type ISI struct {
	Count int
	Mean  float64
	Std   float64
	// CV is Std/Mean: 0 for a perfectly regular train.
	CV float64
}

// ISIStats computes interval statistics from sorted spike times. Fewer than
// two spikes give NaN statistics; one interval gives a zero spread.
func ISIStats(spikeTimes []float64) ISI {
	if len(spikeTimes) < 2 {
		return ISI{Mean: math.NaN(), Std: math.NaN(), CV: math.NaN()}
	}
	intervals := make([]float64, len(spikeTimes)-1)
	for i := range intervals {
		intervals[i] = spikeTimes[i+1] - spikeTimes[i]
	}

	out := ISI{Count: len(intervals)}
	if len(intervals) == 1 {
		out.Mean = intervals[0]
	} else {
		out.Mean, out.Std = stat.MeanStdDev(intervals, nil)
	}
	if out.Mean != 0 {
		out.CV = out.Std / out.Mean
	}
	return out
}
