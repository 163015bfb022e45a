package neuron

import (
	"math"

	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/registry"
)

var HodgkinHuxleyMeta = engine.Meta{
	Name:        "hodgkin_huxley",
	Description: "Hodgkin-Huxley squid axon: Na, K and leak currents with n, m, h gating",
	TimeScale:   1e3,
	Defaults: registry.Defaults{
		States: []registry.StateSpec{
			registry.Bounded("v", -60, -80, 30),
			registry.Bounded("n", 0, 0, 1),
			registry.Bounded("m", 0, 0, 1),
			registry.Bounded("h", 1, 0, 1),
		},
		Params: []registry.ParamSpec{
			registry.Param("gNa", 120),
			registry.Param("gK", 36),
			registry.Param("gL", 0.3),
			registry.Param("ENa", 50),
			registry.Param("EK", -77),
			registry.Param("EL", -54.387),
		},
	},
}

type HodgkinHuxley struct{}

func NewHodgkinHuxley() *HodgkinHuxley { return &HodgkinHuxley{} }

func (*HodgkinHuxley) Meta() engine.Meta { return HodgkinHuxleyMeta.Clone() }

func (*HodgkinHuxley) Derive(f *engine.Frame, stim dynamo.Vec) {
	v, n, m, h := f.State("v"), f.State("n"), f.State("m"), f.State("h")
	dv, dn, dm, dh := f.Deriv("v"), f.Deriv("n"), f.Deriv("m"), f.Deriv("h")
	gNa, gK, gL := f.Param("gNa"), f.Param("gK"), f.Param("gL")
	eNa, eK, eL := f.Param("ENa"), f.Param("EK"), f.Param("EL")

	singular := 0
	for i := range v {
		vi := v[i]

		alpha, s := dynamo.ExpRate(-0.01, vi+55, 10, 0.1)
		if s {
			singular++
		}
		beta := 0.125 * math.Exp(-(vi+65)/80)
		dn[i] = alpha*(1-n[i]) - beta*n[i]

		alpha, s = dynamo.ExpRate(-0.1, vi+40, 10, 1)
		if s {
			singular++
		}
		beta = 4 * math.Exp(-(vi+65)/18)
		dm[i] = alpha*(1-m[i]) - beta*m[i]

		alpha = 0.07 * math.Exp(-(vi+65)/20)
		beta = 1 / (math.Exp(-(vi+35)/10) + 1)
		dh[i] = alpha*(1-h[i]) - beta*h[i]

		iNa := gNa * math.Pow(m[i], 3) * h[i] * (vi - eNa)
		iK := gK * math.Pow(n[i], 4) * (vi - eK)
		iL := gL * (vi - eL)
		dv[i] = stim[i] - iNa - iK - iL
	}
	f.Singular(singular)
}

func (*HodgkinHuxley) Post(*engine.Frame) {}
