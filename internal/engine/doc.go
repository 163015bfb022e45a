// Package engine drives point-neuron models through discrete simulation
// ticks.
//
// A [Model] pairs one [Variant] with its live registry storage and a
// pluggable [dynamo.Integrator]. Every call to [Model.Step] runs the same
// hybrid continuous/discrete sequence:
//
//  1. reset the spike output to 0
//  2. evaluate the variant's derivative function (once for Euler, several
//     times at perturbed states for higher-order schemes)
//  3. advance every integrated state by dt·TimeScale
//  4. clip bounded states into [min, max]
//  5. run the variant's post-step rule, which may reset states and raise spike
//  6. return a deep-copied [Snapshot]
//
// # Example
//
//	m, err := engine.New(variant, engine.Options{Dt: 1e-5, Batch: 1})
//	if err != nil {
//	    return err
//	}
//	snap, err := m.Step(dynamo.Vec{10})
//
// # Thread Safety
//
// Models are NOT safe for concurrent use. Independent models share nothing
// and may be stepped from separate goroutines.
package engine
