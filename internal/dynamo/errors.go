package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for model construction and simulation.
var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownName indicates an override for a state or parameter the model never declared.
	ErrUnknownName = errors.New("dynamo: unknown state or parameter name")

	// ErrDuplicateName indicates a name declared twice in one set of defaults.
	ErrDuplicateName = errors.New("dynamo: duplicate declaration")

	// ErrUnknownVariant indicates a neuron variant that is not registered.
	ErrUnknownVariant = errors.New("dynamo: unknown neuron variant")

	// ErrUnknownIntegrator indicates an integration scheme that is not registered.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrBatchShape indicates a batch size or stimulus length that does not match the model.
	ErrBatchShape = errors.New("dynamo: batch shape mismatch")

	// ErrMissingDerivative indicates an integrated state whose derivative slot was never written.
	ErrMissingDerivative = errors.New("dynamo: derivative slot not written")

	// ErrInvalidConfig indicates an out-of-range run setting such as a non-positive dt.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")
)

// ConfigError reports a construction-time failure. No model is returned
// alongside it.
type ConfigError struct {
	Kind string // "param", "state", "variant", "integrator", "batch", ...
	Name string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SimulationError wraps an error with tick context.
type SimulationError struct {
	Tick    int
	Time    float64
	Name    string
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("tick %d (t=%.6f) %s: %v", e.Tick, e.Time, e.Name, e.Wrapped)
	}
	return fmt.Sprintf("tick %d (t=%.6f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
