// Package dynamo provides the numeric primitives shared by the neuron engine.
//
// The package defines the vector and interface types the simulation core is
// built on:
//
//   - [Vec]: one value per batch element (a batch of independent neurons)
//   - [State]: flat vector of every integrated state, laid out state-major
//   - [System]: ODE right-hand side, dX/dt = f(X, stimulus, t)
//   - [Integrator]: one fixed step of a numerical scheme
//
// It also holds the singularity-safe rate helper [ExpRate] used by the
// conductance-based models, and the sentinel errors reported by every layer
// above it.
//
// # Example
//
//	rate, singular := dynamo.ExpRate(-0.01, v+55, 10, 0.1)
//	if singular {
//	    // limit substituted at v = -55
//	}
package dynamo
