package config

import "sort"

// Presets holds named starting points per variant.
var Presets = map[string]map[string]*Config{
	"iaf": {
		"tonic": {
			Variant: "iaf", Integrator: "euler", Dt: 1e-4, Duration: 1.0, Batch: 1,
			Stimulus: StimulusConfig{Kind: "constant", Amplitude: 0.5},
		},
		"ramp": {
			Variant: "iaf", Integrator: "euler", Dt: 1e-4, Duration: 2.0, Batch: 1,
			Stimulus: StimulusConfig{Kind: "ramp", Amplitude: 1.0, RampEnd: 2.0},
		},
	},
	"leaky_iaf": {
		"threshold": {
			Variant: "leaky_iaf", Integrator: "euler", Dt: 1e-4, Duration: 0.5, Batch: 1,
			Stimulus: StimulusConfig{Kind: "constant", Amplitude: 0.3},
		},
		"subthreshold": {
			Variant: "leaky_iaf", Integrator: "euler", Dt: 1e-4, Duration: 0.5, Batch: 1,
			Stimulus: StimulusConfig{Kind: "constant", Amplitude: 0.2},
		},
	},
	"hodgkin_huxley": {
		"rest": {
			Variant: "hodgkin_huxley", Integrator: "rk4", Dt: 1e-5, Duration: 0.05, Batch: 1,
			Stimulus: StimulusConfig{Kind: "none"},
		},
		"spiking": {
			Variant: "hodgkin_huxley", Integrator: "rk4", Dt: 1e-5, Duration: 0.1, Batch: 1,
			Stimulus: StimulusConfig{Kind: "constant", Amplitude: 10},
		},
		"pulse": {
			Variant: "hodgkin_huxley", Integrator: "rk4", Dt: 1e-5, Duration: 0.05, Batch: 1,
			Stimulus: StimulusConfig{Kind: "pulse", Amplitude: 15, Onset: 0.01, Offset: 0.02},
		},
		"noisy": {
			Variant: "hodgkin_huxley", Integrator: "euler", Dt: 1e-5, Duration: 0.1, Batch: 4, Seed: 1,
			Stimulus: StimulusConfig{Kind: "noise", Amplitude: 6, Sigma: 4},
		},
	},
	"connor_stevens": {
		"repetitive": {
			Variant: "connor_stevens", Integrator: "rk4", Dt: 1e-5, Duration: 0.2, Batch: 1,
			Stimulus: StimulusConfig{Kind: "constant", Amplitude: 10},
		},
	},
	"wilson": {
		"rest": {
			Variant: "wilson", Integrator: "rk4", Dt: 1e-5, Duration: 0.05, Batch: 1,
			Stimulus: StimulusConfig{Kind: "none"},
		},
		"spiking": {
			Variant: "wilson", Integrator: "rk4", Dt: 1e-5, Duration: 0.1, Batch: 1,
			Stimulus: StimulusConfig{Kind: "constant", Amplitude: 1},
		},
	},
	"rinzel": {
		"spiking": {
			Variant: "rinzel", Integrator: "rk4", Dt: 1e-5, Duration: 0.1, Batch: 1,
			Stimulus: StimulusConfig{Kind: "constant", Amplitude: 10},
		},
	},
}

// GetPreset returns a copy of the named preset, nil if it does not exist.
func GetPreset(variant, preset string) *Config {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	cfg, ok := variantPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of a variant, sorted.
func ListPresets(variant string) []string {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variantPresets))
	for name := range variantPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetVariants returns the variants that have presets, sorted.
func PresetVariants() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
