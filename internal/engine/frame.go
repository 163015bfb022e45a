package engine

import (
	"fmt"

	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/registry"
)

type layout struct {
	names []string
	index map[string]int
}

func newLayout(st *registry.Store) layout {
	names := st.IntegratedNames()
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	return layout{names: names, index: index}
}

// Frame is a variant's view of a model during one derivative evaluation or
// one post-step call.
//
// During the derivative phase, integrated states read from the vector the
// integrator is sampling, which may be a perturbed intermediate. Derivative
// slots are zeroed before each evaluation. During the post-step phase, states
// read and write the committed storage, and Deriv is unavailable.
type Frame struct {
	store    *registry.Store
	lay      *layout
	x        dynamo.State
	dx       dynamo.State
	written  []bool
	singular int
}

func (f *Frame) Batch() int { return f.store.Batch() }

// State returns the values of a declared state.
func (f *Frame) State(name string) dynamo.Vec {
	if i, ok := f.lay.index[name]; ok {
		b := f.store.Batch()
		return dynamo.Vec(f.x[i*b : (i+1)*b])
	}
	return f.store.State(name)
}

// Param returns a parameter value. Parameters cannot be written.
func (f *Frame) Param(name string) float64 {
	return f.store.Param(name)
}

// Deriv returns the derivative slot of an integrated state and marks it
// written.
func (f *Frame) Deriv(name string) dynamo.Vec {
	if f.dx == nil {
		panic("engine: Deriv called outside the derivative phase")
	}
	i, ok := f.lay.index[name]
	if !ok {
		panic(fmt.Sprintf("engine: state %q has no derivative slot", name))
	}
	f.written[i] = true
	b := f.store.Batch()
	return dynamo.Vec(f.dx[i*b : (i+1)*b])
}

// Singular records n limit substitutions made by the numeric safety helpers.
func (f *Frame) Singular(n int) {
	f.singular += n
}

func (f *Frame) missing() []string {
	var out []string
	for i, ok := range f.written {
		if !ok {
			out = append(out, f.lay.names[i])
		}
	}
	return out
}
