package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the one-sided amplitude spectrum of data with its
// mean removed, one bin per non-negative frequency.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	centered := make([]float64, len(data))
	mean := stat.Mean(data, nil)
	for i, x := range data {
		centered[i] = x - mean
	}

	fft := fourier.NewFFT(len(data))
	coeff := fft.Coefficients(nil, centered)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of data sampled every dt seconds, 0 for a flat trace.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if best == 0 {
		return 0
	}
	fft := fourier.NewFFT(len(data))
	return fft.Freq(best) / dt
}
