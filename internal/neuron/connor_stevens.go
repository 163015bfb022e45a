package neuron

import (
	"math"

	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/registry"
)

// ConnorStevensMeta describes the Connor-Stevens model: Hodgkin-Huxley
// channels with shifted kinetics plus a transient A-type K current (a, b),
// which gives a low-rate repetitive firing regime.
var ConnorStevensMeta = engine.Meta{
	Name:        "connor_stevens",
	Description: "Connor-Stevens with A-type potassium current",
	TimeScale:   1e3,
	Defaults: registry.Defaults{
		States: []registry.StateSpec{
			registry.Bounded("v", -60, -80, 50),
			registry.Bounded("n", 0, 0, 1),
			registry.Bounded("m", 0, 0, 1),
			registry.Bounded("h", 1, 0, 1),
			registry.Bounded("a", 1, 0, 1),
			registry.Bounded("b", 1, 0, 1),
		},
		Params: []registry.ParamSpec{
			registry.Param("ms", -5.3),
			registry.Param("ns", -4.3),
			registry.Param("hs", -12),
			registry.Param("gNa", 120),
			registry.Param("gK", 20),
			registry.Param("gL", 0.3),
			registry.Param("ga", 47.7),
			registry.Param("ENa", 55),
			registry.Param("EK", -72),
			registry.Param("EL", -17),
			registry.Param("Ea", -75),
		},
	},
}

type ConnorStevens struct{}

func NewConnorStevens() *ConnorStevens { return &ConnorStevens{} }

func (*ConnorStevens) Meta() engine.Meta { return ConnorStevensMeta.Clone() }

func (*ConnorStevens) Derive(f *engine.Frame, stim dynamo.Vec) {
	v, n, m, h := f.State("v"), f.State("n"), f.State("m"), f.State("h")
	a, b := f.State("a"), f.State("b")
	dv, dn, dm, dh := f.Deriv("v"), f.Deriv("n"), f.Deriv("m"), f.Deriv("h")
	da, db := f.Deriv("a"), f.Deriv("b")

	ms, ns, hs := f.Param("ms"), f.Param("ns"), f.Param("hs")
	gNa, gK, gL, ga := f.Param("gNa"), f.Param("gK"), f.Param("gL"), f.Param("ga")
	eNa, eK, eL, eA := f.Param("ENa"), f.Param("EK"), f.Param("EL"), f.Param("Ea")

	singular := 0
	for i := range v {
		vi := v[i]

		alpha, s := dynamo.ExpRate(-0.01, vi+50+ns, 10, 0.1)
		if s {
			singular++
		}
		beta := 0.125 * math.Exp(-(vi+60+ns)/80)
		nInf := alpha / (alpha + beta)
		tauN := 2 / (3.8 * (alpha + beta))

		alpha, s = dynamo.ExpRate(-0.1, vi+35+ms, 10, 1)
		if s {
			singular++
		}
		beta = 4 * math.Exp(-(vi+60+ms)/18)
		mInf := alpha / (alpha + beta)
		tauM := 1 / (3.8 * (alpha + beta))

		alpha = 0.07 * math.Exp(-(vi+60+hs)/20)
		beta = 1 / (1 + math.Exp(-(vi+30+hs)/10))
		hInf := alpha / (alpha + beta)
		tauH := 1 / (3.8 * (alpha + beta))

		aInf := math.Cbrt(0.0761 * math.Exp((vi+94.22)/31.84) / (1 + math.Exp((vi+1.17)/28.93)))
		tauA := 0.3632 + 1.158/(1+math.Exp((vi+55.96)/20.12))
		bInf := math.Pow(1/(1+math.Exp((vi+53.3)/14.54)), 4)
		tauB := 1.24 + 2.678/(1+math.Exp((vi+50)/16.027))

		iNa := gNa * math.Pow(m[i], 3) * h[i] * (vi - eNa)
		iK := gK * math.Pow(n[i], 4) * (vi - eK)
		iL := gL * (vi - eL)
		iA := ga * math.Pow(a[i], 3) * b[i] * (vi - eA)

		dv[i] = stim[i] - iNa - iK - iL - iA
		dn[i] = (nInf - n[i]) / tauN
		dm[i] = (mInf - m[i]) / tauM
		dh[i] = (hInf - h[i]) / tauH
		da[i] = (aInf - a[i]) / tauA
		db[i] = (bInf - b[i]) / tauB
	}
	f.Singular(singular)
}

func (*ConnorStevens) Post(*engine.Frame) {}
