package neuron

import (
	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/registry"
)

// WilsonMeta describes the Wilson (1998) polynomial model with a quadratic
// Na conductance and a single recovery variable r.
var WilsonMeta = engine.Meta{
	Name:        "wilson",
	Description: "Wilson polynomial cortical neuron with recovery variable r",
	TimeScale:   1e3,
	Defaults: registry.Defaults{
		States: []registry.StateSpec{
			registry.Scalar("r", 0.088),
			registry.Scalar("v", -70),
		},
		Params: []registry.ParamSpec{
			registry.Param("C", 1.2),
			registry.Param("EK", -92),
			registry.Param("gK", 26),
			registry.Param("ENa", 55),
		},
	},
}

type Wilson struct{}

func NewWilson() *Wilson { return &Wilson{} }

func (*Wilson) Meta() engine.Meta { return WilsonMeta.Clone() }

func (*Wilson) Derive(f *engine.Frame, stim dynamo.Vec) {
	r, v := f.State("r"), f.State("v")
	dr, dv := f.Deriv("r"), f.Deriv("v")
	c, eK, gK, eNa := f.Param("C"), f.Param("EK"), f.Param("gK"), f.Param("ENa")

	for i := range v {
		vi := v[i]
		rInf := 0.0135*vi + 1.03
		dr[i] = (rInf - r[i]) / 1.9

		iNa := (17.81 + 0.4771*vi + 0.003263*vi*vi) * (vi - eNa)
		iK := gK * r[i] * (vi - eK)
		dv[i] = (stim[i] - iNa - iK) / c
	}
}

func (*Wilson) Post(*engine.Frame) {}
