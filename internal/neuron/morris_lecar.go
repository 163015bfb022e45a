package neuron

import (
	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/registry"
)

// MorrisLecarMeta declares the Morris-Lecar synapse-style kinetic states and
// parameters. The dynamics are not implemented: Derive writes nothing and
// the states keep their initial values.
var MorrisLecarMeta = engine.Meta{
	Name:          "morris_lecar",
	Description:   "Morris-Lecar (declared only, dynamics not implemented)",
	Unimplemented: true,
	Defaults: registry.Defaults{
		States: []registry.StateSpec{
			registry.Scalar("r", 0),
			registry.Scalar("s", 0),
		},
		Params: []registry.ParamSpec{
			registry.Param("ar", 0.09),
			registry.Param("br", 0.012),
			registry.Param("k3", 0.18),
			registry.Param("k4", 0.034),
			registry.Param("kd", 100),
			registry.Param("gmax", 1),
			registry.Param("n", 4),
		},
	},
}

type MorrisLecar struct{}

func NewMorrisLecar() *MorrisLecar { return &MorrisLecar{} }

func (*MorrisLecar) Meta() engine.Meta { return MorrisLecarMeta.Clone() }

func (*MorrisLecar) Derive(*engine.Frame, dynamo.Vec) {}

func (*MorrisLecar) Post(*engine.Frame) {}
