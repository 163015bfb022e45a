package neuron

import (
	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/registry"
)

var LeakyIAFMeta = engine.Meta{
	Name:        "leaky_iaf",
	Description: "leaky integrate-and-fire: RC membrane leaking toward vr, resets to vr above vt",
	Defaults: registry.Defaults{
		States: []registry.StateSpec{
			registry.Event(engine.SpikeState),
			registry.Bounded("v", -0.05, -0.070, 0.025),
		},
		Params: []registry.ParamSpec{
			registry.Param("vt", -0.025),
			registry.Param("c", 1.5),
			registry.Param("vr", -0.070),
			registry.Param("r", 0.2),
		},
	},
}

type LeakyIAF struct{}

func NewLeakyIAF() *LeakyIAF { return &LeakyIAF{} }

func (*LeakyIAF) Meta() engine.Meta { return LeakyIAFMeta.Clone() }

func (*LeakyIAF) Derive(f *engine.Frame, stim dynamo.Vec) {
	v, dv := f.State("v"), f.Deriv("v")
	c, vr, r := f.Param("c"), f.Param("vr"), f.Param("r")
	for i := range dv {
		dv[i] = (-(v[i]-vr)/r + stim[i]) / c
	}
}

func (*LeakyIAF) Post(f *engine.Frame) {
	v, spike := f.State("v"), f.State(engine.SpikeState)
	vt, vr := f.Param("vt"), f.Param("vr")
	for i := range v {
		if v[i] > vt {
			v[i] = vr
			spike[i] = 1
		}
	}
}
