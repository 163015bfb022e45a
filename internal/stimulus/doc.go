// Package stimulus provides input current protocols for neuron models.
//
// A [Stimulus] fills one value per batch element for a given global time:
//
//   - [Constant]: fixed amplitude
//   - [Pulse]: amplitude on [Onset, Offset), zero elsewhere
//   - [Ramp]: linear rise from Onset to End, then hold
//   - [Noise]: seeded Gaussian fluctuation around a base protocol
//   - [Manual]: amplitude set interactively
//
// # Usage
//
//	stim := stimulus.NewPulse(10, 0.01, 0.02)
//	buf := make(dynamo.Vec, model.Batch())
//	stim.At(model.Time(), buf)
//	model.Step(buf)
package stimulus
