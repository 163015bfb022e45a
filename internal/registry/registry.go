// Package registry materialises a neuron variant's declared defaults into
// live per-instance storage.
//
// A variant declares its states and parameters once, as [Defaults]; every
// model built from it gets its own [Store] holding current values for a
// fixed-size batch of independent neurons. Caller overrides are merged at
// construction and must name something the variant declared.
package registry

import (
	"fmt"

	"github.com/san-kum/neurosim/internal/dynamo"
)

// StateSpec declares one state variable.
type StateSpec struct {
	Name    string
	Init    float64
	Min     float64
	Max     float64
	Bounded bool
	// Event marks a discrete state (such as spike) that is written by the
	// post-step rule and never integrated.
	Event bool
}

// ParamSpec declares one constant parameter.
type ParamSpec struct {
	Name  string
	Value float64
}

// Defaults is the static declaration of a variant's states and parameters.
type Defaults struct {
	States []StateSpec
	Params []ParamSpec
}

// Clone returns a copy that shares no slices with d.
func (d Defaults) Clone() Defaults {
	return Defaults{
		States: append([]StateSpec(nil), d.States...),
		Params: append([]ParamSpec(nil), d.Params...),
	}
}

// Scalar declares an unbounded state with the given initial value.
func Scalar(name string, init float64) StateSpec {
	return StateSpec{Name: name, Init: init}
}

// Bounded declares a state with an initial value and clamp bounds.
func Bounded(name string, init, min, max float64) StateSpec {
	return StateSpec{Name: name, Init: init, Min: min, Max: max, Bounded: true}
}

// Event declares a discrete, non-integrated state starting at zero.
func Event(name string) StateSpec {
	return StateSpec{Name: name, Event: true}
}

// Param declares a parameter with its default value.
func Param(name string, value float64) ParamSpec {
	return ParamSpec{Name: name, Value: value}
}

// State looks up a declared state by name.
func (d Defaults) State(name string) (StateSpec, bool) {
	for _, s := range d.States {
		if s.Name == name {
			return s, true
		}
	}
	return StateSpec{}, false
}

// Param looks up a declared parameter by name.
func (d Defaults) Param(name string) (ParamSpec, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// Overrides replaces declared defaults at construction.
type Overrides struct {
	Params map[string]float64
	States map[string]float64
}

func (d Defaults) validate() error {
	seen := make(map[string]bool, len(d.States)+len(d.Params))
	for _, s := range d.States {
		if seen[s.Name] {
			return &dynamo.ConfigError{Kind: "state", Name: s.Name, Err: dynamo.ErrDuplicateName}
		}
		if s.Bounded && s.Min > s.Max {
			return &dynamo.ConfigError{Kind: "state", Name: s.Name,
				Err: fmt.Errorf("%w: min %g > max %g", dynamo.ErrInvalidConfig, s.Min, s.Max)}
		}
		seen[s.Name] = true
	}
	for _, p := range d.Params {
		if seen[p.Name] {
			return &dynamo.ConfigError{Kind: "param", Name: p.Name, Err: dynamo.ErrDuplicateName}
		}
		seen[p.Name] = true
	}
	return nil
}

func (o Overrides) validate(d Defaults) error {
	for name := range o.Params {
		if _, ok := d.Param(name); !ok {
			return &dynamo.ConfigError{Kind: "param", Name: name, Err: dynamo.ErrUnknownName}
		}
	}
	for name := range o.States {
		if _, ok := d.State(name); !ok {
			return &dynamo.ConfigError{Kind: "state", Name: name, Err: dynamo.ErrUnknownName}
		}
	}
	return nil
}
