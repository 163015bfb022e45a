package registry

import (
	"fmt"
	"math"

	"github.com/san-kum/neurosim/internal/dynamo"
)

type slot struct {
	spec StateSpec
	val  dynamo.Vec
}

// Store is the live state and parameter storage of one model instance.
//
// Integrated states share one contiguous vector, laid out state-major, so an
// integrator can advance them all at once; event states are kept apart.
// Parameters have no setter and stay fixed for the life of the store.
type Store struct {
	batch  int
	order  []string
	slots  map[string]*slot
	flat   dynamo.State
	events dynamo.State
	init   map[string]float64

	paramOrder []string
	params     map[string]float64
}

// New builds a Store of the given batch size from declared defaults and
// caller overrides. Unknown override names fail construction.
func New(defaults Defaults, overrides Overrides, batch int) (*Store, error) {
	if batch < 1 {
		return nil, &dynamo.ConfigError{Kind: "batch", Err: fmt.Errorf("%w: batch %d < 1", dynamo.ErrBatchShape, batch)}
	}
	if err := defaults.validate(); err != nil {
		return nil, err
	}
	if err := overrides.validate(defaults); err != nil {
		return nil, err
	}

	nInt, nEv := 0, 0
	for _, s := range defaults.States {
		if s.Event {
			nEv++
		} else {
			nInt++
		}
	}

	st := &Store{
		batch:  batch,
		order:  make([]string, 0, len(defaults.States)),
		slots:  make(map[string]*slot, len(defaults.States)),
		flat:   make(dynamo.State, nInt*batch),
		events: make(dynamo.State, nEv*batch),
		init:   make(map[string]float64, len(defaults.States)),
		params: make(map[string]float64, len(defaults.Params)),
	}

	iInt, iEv := 0, 0
	for _, s := range defaults.States {
		var val dynamo.Vec
		if s.Event {
			val = dynamo.Vec(st.events[iEv*batch : (iEv+1)*batch])
			iEv++
		} else {
			val = dynamo.Vec(st.flat[iInt*batch : (iInt+1)*batch])
			iInt++
		}

		init := s.Init
		if v, ok := overrides.States[s.Name]; ok {
			init = v
		}
		if s.Bounded {
			init = math.Min(math.Max(init, s.Min), s.Max)
		}
		val.Fill(init)

		st.order = append(st.order, s.Name)
		st.slots[s.Name] = &slot{spec: s, val: val}
		st.init[s.Name] = init
	}

	for _, p := range defaults.Params {
		v := p.Value
		if o, ok := overrides.Params[p.Name]; ok {
			v = o
		}
		st.paramOrder = append(st.paramOrder, p.Name)
		st.params[p.Name] = v
	}

	return st, nil
}

func (s *Store) Batch() int { return s.batch }

// Names returns state names in declaration order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// IntegratedNames returns the non-event state names in the order they
// appear in the flat vector.
func (s *Store) IntegratedNames() []string {
	out := make([]string, 0, len(s.order))
	for _, name := range s.order {
		if !s.slots[name].spec.Event {
			out = append(out, name)
		}
	}
	return out
}

// Integrated returns the live flat vector of integrated states.
func (s *Store) Integrated() dynamo.State { return s.flat }

// Lookup returns the live values of a state.
func (s *Store) Lookup(name string) (dynamo.Vec, bool) {
	sl, ok := s.slots[name]
	if !ok {
		return nil, false
	}
	return sl.val, true
}

// State returns the live values of a declared state and panics on an
// unknown name; variants only ask for states they declared.
func (s *Store) State(name string) dynamo.Vec {
	v, ok := s.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("registry: state %q not declared", name))
	}
	return v
}

// ParamValue returns a parameter value.
func (s *Store) ParamValue(name string) (float64, bool) {
	v, ok := s.params[name]
	return v, ok
}

// Param returns a declared parameter and panics on an unknown name.
func (s *Store) Param(name string) float64 {
	v, ok := s.params[name]
	if !ok {
		panic(fmt.Sprintf("registry: parameter %q not declared", name))
	}
	return v
}

// ParamNames returns parameter names in declaration order.
func (s *Store) ParamNames() []string {
	out := make([]string, len(s.paramOrder))
	copy(out, s.paramOrder)
	return out
}

// Params returns a copy of every parameter value.
func (s *Store) Params() map[string]float64 {
	out := make(map[string]float64, len(s.params))
	for k, v := range s.params {
		out[k] = v
	}
	return out
}

// Clamp clips every bounded state into [min, max] and returns the number
// of elements that were out of range.
func (s *Store) Clamp() int {
	n := 0
	for _, name := range s.order {
		sl := s.slots[name]
		if !sl.spec.Bounded {
			continue
		}
		for i, x := range sl.val {
			switch {
			case x < sl.spec.Min:
				sl.val[i] = sl.spec.Min
				n++
			case x > sl.spec.Max:
				sl.val[i] = sl.spec.Max
				n++
			}
		}
	}
	return n
}

// Reset restores every state to its construction-time initial value.
func (s *Store) Reset() {
	for _, name := range s.order {
		s.slots[name].val.Fill(s.init[name])
	}
}

// Snapshot returns a deep copy of every state.
func (s *Store) Snapshot() map[string]dynamo.Vec {
	out := make(map[string]dynamo.Vec, len(s.order))
	for _, name := range s.order {
		out[name] = s.slots[name].val.Clone()
	}
	return out
}
