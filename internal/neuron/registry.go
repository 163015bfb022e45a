package neuron

import (
	"fmt"
	"sort"

	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
)

var variants = map[string]func() engine.Variant{
	IAFMeta.Name:           func() engine.Variant { return NewIAF() },
	LeakyIAFMeta.Name:      func() engine.Variant { return NewLeakyIAF() },
	HodgkinHuxleyMeta.Name: func() engine.Variant { return NewHodgkinHuxley() },
	RinzelMeta.Name:        func() engine.Variant { return NewRinzel() },
	WilsonMeta.Name:        func() engine.Variant { return NewWilson() },
	ConnorStevensMeta.Name: func() engine.Variant { return NewConnorStevens() },
	MorrisLecarMeta.Name:   func() engine.Variant { return NewMorrisLecar() },
}

// Lookup returns the variant registered under name.
func Lookup(name string) (engine.Variant, error) {
	fn, ok := variants[name]
	if !ok {
		return nil, &dynamo.ConfigError{Kind: "variant", Name: name, Err: dynamo.ErrUnknownVariant}
	}
	return fn(), nil
}

// New builds a model of the named variant.
func New(name string, opts engine.Options) (*engine.Model, error) {
	v, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	m, err := engine.New(v, opts)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return m, nil
}

// Names returns the registered variant names, sorted.
func Names() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog returns every variant's static metadata, sorted by name.
func Catalog() []engine.Meta {
	names := Names()
	out := make([]engine.Meta, len(names))
	for i, name := range names {
		out[i] = variants[name]().Meta()
	}
	return out
}
