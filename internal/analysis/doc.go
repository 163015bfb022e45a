// Package analysis extracts electrophysiology measures from simulated
// traces.
//
//   - [DetectSpikes]: upward threshold crossings of a voltage trace
//   - [ISIStats]: inter-spike interval mean, spread and CV
//   - [FICurve]: firing rate as a function of constant input current
//   - [PowerSpectrum], [DominantFrequency]: spectral content of a trace
//   - [NewPhasePlane]: 2-D trajectory of two states, renderable as text
//
// # Firing threshold
//
// Integrate-and-fire variants report spikes directly. Conductance-based
// variants do not, so their spikes are read from v crossing a threshold:
//
//	idx := analysis.DetectSpikes(result.Series("v", 0), 0)
//	stats := analysis.ISIStats(analysis.SpikeTimes(result.Times, idx))
package analysis
