package integrators

import (
	"sort"

	"github.com/san-kum/neurosim/internal/dynamo"
)

var constructors = map[string]func() dynamo.Integrator{
	"euler":    func() dynamo.Integrator { return NewEuler() },
	"midpoint": func() dynamo.Integrator { return NewMidpoint() },
	"rk4":      func() dynamo.Integrator { return NewRK4() },
	"rk45":     func() dynamo.Integrator { return NewRK45() },
}

// ByName returns a fresh integrator. Integrators keep scratch buffers, so
// each model needs its own.
func ByName(name string) (dynamo.Integrator, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, &dynamo.ConfigError{Kind: "integrator", Name: name, Err: dynamo.ErrUnknownIntegrator}
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
