package stimulus

import (
	"fmt"
	"sort"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/dynamo"
)

var kinds = map[string]func(c config.StimulusConfig, seed int64) (Stimulus, error){
	"none": func(config.StimulusConfig, int64) (Stimulus, error) {
		return NewConstant(0), nil
	},
	"constant": func(c config.StimulusConfig, _ int64) (Stimulus, error) {
		return NewConstant(c.Amplitude), nil
	},
	"pulse": func(c config.StimulusConfig, _ int64) (Stimulus, error) {
		if c.Offset <= c.Onset {
			return nil, fmt.Errorf("%w: pulse offset %g must follow onset %g", dynamo.ErrInvalidConfig, c.Offset, c.Onset)
		}
		return NewPulse(c.Amplitude, c.Onset, c.Offset), nil
	},
	"ramp": func(c config.StimulusConfig, _ int64) (Stimulus, error) {
		if c.RampEnd <= c.Onset {
			return nil, fmt.Errorf("%w: ramp end %g must follow onset %g", dynamo.ErrInvalidConfig, c.RampEnd, c.Onset)
		}
		return NewRamp(c.Amplitude, c.Onset, c.RampEnd), nil
	},
	"noise": func(c config.StimulusConfig, seed int64) (Stimulus, error) {
		if c.Sigma < 0 {
			return nil, fmt.Errorf("%w: negative sigma %g", dynamo.ErrInvalidConfig, c.Sigma)
		}
		return NewNoise(NewConstant(c.Amplitude), c.Sigma, seed), nil
	},
	"manual": func(c config.StimulusConfig, _ int64) (Stimulus, error) {
		return NewManual(c.Amplitude), nil
	},
}

// FromConfig builds the protocol a config names. An empty kind is constant.
func FromConfig(c config.StimulusConfig, seed int64) (Stimulus, error) {
	kind := c.Kind
	if kind == "" {
		kind = "constant"
	}
	fn, ok := kinds[kind]
	if !ok {
		return nil, &dynamo.ConfigError{Kind: "stimulus", Name: kind, Err: dynamo.ErrUnknownName}
	}
	s, err := fn(c, seed)
	if err != nil {
		return nil, &dynamo.ConfigError{Kind: "stimulus", Name: kind, Err: err}
	}
	return s, nil
}

// Kinds returns the registered stimulus kinds, sorted.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
