package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/neurosim/internal/dynamo"
)

// Euler is the explicit forward Euler scheme: x + dt·f(x). It samples the
// derivative once per step.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Vec, t, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := x.Clone()
	floats.AddScaled(result, dt, dx)
	return result
}

// Midpoint is the explicit second-order Runge-Kutta midpoint scheme.
type Midpoint struct {
	scratch dynamo.State
}

func NewMidpoint() *Midpoint {
	return &Midpoint{}
}

func (m *Midpoint) Name() string { return "midpoint" }

func (m *Midpoint) Step(dyn dynamo.System, x dynamo.State, u dynamo.Vec, t, dt float64) dynamo.State {
	if len(m.scratch) != len(x) {
		m.scratch = make(dynamo.State, len(x))
	}

	k1 := dyn.Derive(x, u, t)
	floats.AddScaledTo(m.scratch, x, 0.5*dt, k1)
	k2 := dyn.Derive(m.scratch, u, t+0.5*dt)

	result := x.Clone()
	floats.AddScaled(result, dt, k2)
	return result
}
