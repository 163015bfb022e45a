// Package viz renders simulations in the terminal.
//
//   - [PlotTrace], [PlotBatch]: asciigraph line plots of recorded traces
//   - [VariantTable], [MetricsTable]: lipgloss tables
//   - [SpikeRaster]: one-line spike train
//   - [Live]: Bubble Tea program that steps a model in real time
//
// # Live Key Bindings
//
//	Space     - Pause/Resume
//	Up/Down   - Raise/lower the stimulus
//	R         - Reset the model
//	T         - Cycle color themes
//	Q         - Quit
package viz
