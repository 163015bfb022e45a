package neuron

import (
	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/registry"
)

var IAFMeta = engine.Meta{
	Name:        "iaf",
	Description: "integrate-and-fire: perfect integrator with bias, resets to 0 above vt",
	Defaults: registry.Defaults{
		States: []registry.StateSpec{
			registry.Event(engine.SpikeState),
			registry.Scalar("v", 0),
		},
		Params: []registry.ParamSpec{
			registry.Param("vt", 0.025),
			registry.Param("c", 5),
			registry.Param("bias", 0.01),
		},
	},
}

type IAF struct{}

func NewIAF() *IAF { return &IAF{} }

func (*IAF) Meta() engine.Meta { return IAFMeta.Clone() }

func (*IAF) Derive(f *engine.Frame, stim dynamo.Vec) {
	dv := f.Deriv("v")
	c, bias := f.Param("c"), f.Param("bias")
	for i := range dv {
		dv[i] = (stim[i] + bias) / c
	}
}

func (*IAF) Post(f *engine.Frame) {
	v, spike := f.State("v"), f.State(engine.SpikeState)
	vt := f.Param("vt")
	for i := range v {
		if v[i] > vt {
			v[i] = 0
			spike[i] = 1
		}
	}
}
