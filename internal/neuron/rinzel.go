package neuron

import (
	"math"

	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/registry"
)

// RinzelMeta describes Rinzel's two-variable reduction of Hodgkin-Huxley:
// m is slaved to its steady state and n, h collapse into one recovery
// variable w.
var RinzelMeta = engine.Meta{
	Name:        "rinzel",
	Description: "Rinzel 2-D reduction of Hodgkin-Huxley with recovery variable w",
	TimeScale:   1e3,
	Defaults: registry.Defaults{
		States: []registry.StateSpec{
			registry.Bounded("v", -60, -80, 30),
			registry.Bounded("w", 0, 0, 1),
		},
		Params: []registry.ParamSpec{
			registry.Param("C", 0.75),
			registry.Param("gNa", 120),
			registry.Param("gK", 36),
			registry.Param("gL", 0.3),
			registry.Param("ENa", 50),
			registry.Param("EK", -77),
			registry.Param("EL", -54.387),
			registry.Param("s", 1.27135220916422),
		},
	},
}

type Rinzel struct{}

func NewRinzel() *Rinzel { return &Rinzel{} }

func (*Rinzel) Meta() engine.Meta { return RinzelMeta.Clone() }

func (*Rinzel) Derive(f *engine.Frame, stim dynamo.Vec) {
	v, w := f.State("v"), f.State("w")
	dv, dw := f.Deriv("v"), f.Deriv("w")
	c, gNa, gK, gL := f.Param("C"), f.Param("gNa"), f.Param("gK"), f.Param("gL")
	eNa, eK, eL := f.Param("ENa"), f.Param("EK"), f.Param("EL")
	sc := f.Param("s")

	singular := 0
	for i := range v {
		vi := v[i]

		alpha, s := dynamo.ExpRate(-0.01, vi+55, 10, 0.1)
		if s {
			singular++
		}
		beta := 0.125 * math.Exp(-(vi+65)/80)
		nInf := alpha / (alpha + beta)

		alpha, s = dynamo.ExpRate(-0.1, vi+40, 10, 1)
		if s {
			singular++
		}
		beta = 4 * math.Exp(-(vi+65)/18)
		mInf := alpha / (alpha + beta)

		alpha = 0.07 * math.Exp(-(vi+65)/20)
		beta = 1 / (math.Exp(-(vi+35)/10) + 1)
		hInf := alpha / (alpha + beta)

		wInf := sc / (1 + sc*sc) * (nInf + sc*(1-hInf))
		// Evaluated left to right, /55*55 cancels: the exponent is -(v+55)².
		tauW := 1 + 5*math.Exp(-(vi+55)*(vi+55)/55*55)
		dw[i] = 3*wInf/tauW - 3/tauW*w[i]

		iNa := gNa * math.Pow(mInf, 3) * (1 - w[i]) * (vi - eNa)
		iK := gK * math.Pow(w[i]/sc, 4) * (vi - eK)
		iL := gL * (vi - eL)
		dv[i] = (stim[i] - iNa - iK - iL) / c
	}
	f.Singular(singular)
}

func (*Rinzel) Post(*engine.Frame) {}
