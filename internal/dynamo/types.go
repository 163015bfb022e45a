package dynamo

import "math"

// Vec holds one value per batch element.
type Vec []float64

func (v Vec) Clone() Vec {
	c := make(Vec, len(v))
	copy(c, v)
	return c
}

func (v Vec) Fill(x float64) {
	for i := range v {
		v[i] = x
	}
}

// At returns element i, broadcasting a single-element Vec to any index.
// A nil Vec reads as zero.
func (v Vec) At(i int) float64 {
	switch len(v) {
	case 0:
		return 0
	case 1:
		return v[0]
	}
	return v[i]
}

// State is the flat vector of integrated values handed to an [Integrator].
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is the right-hand side of an ODE: it returns dX/dt for state x
// under stimulus u at time t. The returned slice must not alias x.
type System interface {
	Derive(x State, u Vec, t float64) State
}

// Integrator advances a System by one fixed step of size dt.
type Integrator interface {
	Name() string
	Step(dyn System, x State, u Vec, t, dt float64) State
}
