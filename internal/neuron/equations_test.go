package neuron_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neurosim/internal/engine"
)

// One forward Euler tick from a known state, checked against the rate
// equations written out in closed form.

const (
	goldenTol = 1e-12
	goldenDt  = 1e-7
)

// rate is k·x/(exp(-x/slope)-1) with its limit -k·slope at x = 0.
func rate(k, x, slope float64) (float64, int) {
	if math.Abs(x) < 1e-9 {
		return -k * slope, 1
	}
	return k * x / (math.Exp(-x/slope) - 1), 0
}

type golden struct {
	states   map[string]float64
	warnings int
}

func expectTick(name string, dt float64, init map[string]float64, stim float64, want golden) {
	m := build(name, engine.Options{Dt: dt, States: init})
	snap := step(m, stim)
	for state, x := range want.states {
		ExpectWithOffset(1, snap.Value(state)).To(HaveLen(1))
		ExpectWithOffset(1, snap.Value(state)[0]).To(BeNumerically("~", x, goldenTol), "state %s", state)
	}
	ExpectWithOffset(1, m.Warnings()).To(Equal(want.warnings))
}

var _ = Describe("Equations", func() {
	DescribeTable("hodgkin_huxley",
		func(v, stim float64) {
			n, m, h := 0.3, 0.1, 0.6
			dt := goldenDt * 1e3

			an, s1 := rate(-0.01, v+55, 10)
			bn := 0.125 * math.Exp(-(v+65)/80)
			am, s2 := rate(-0.1, v+40, 10)
			bm := 4 * math.Exp(-(v+65)/18)
			ah := 0.07 * math.Exp(-(v+65)/20)
			bh := 1 / (math.Exp(-(v+35)/10) + 1)

			dv := stim - 120*m*m*m*h*(v-50) - 36*n*n*n*n*(v+77) - 0.3*(v+54.387)

			expectTick("hodgkin_huxley", goldenDt,
				map[string]float64{"v": v, "n": n, "m": m, "h": h}, stim,
				golden{
					states: map[string]float64{
						"v": v + dt*dv,
						"n": n + dt*(an*(1-n)-bn*n),
						"m": m + dt*(am*(1-m)-bm*m),
						"h": h + dt*(ah*(1-h)-bh*h),
					},
					warnings: s1 + s2,
				})
		},
		Entry("at rest", -70.0, 0.0),
		Entry("on the n singular point", -55.0, 0.0),
		Entry("on the m singular point", -40.0, 5.0),
		Entry("depolarised", -20.0, 10.0),
		Entry("near the Na peak", 10.0, 0.0),
	)

	DescribeTable("rinzel",
		func(v, stim float64) {
			w, sc := 0.3, 1.27135220916422
			dt := goldenDt * 1e3

			an, s1 := rate(-0.01, v+55, 10)
			bn := 0.125 * math.Exp(-(v+65)/80)
			am, s2 := rate(-0.1, v+40, 10)
			bm := 4 * math.Exp(-(v+65)/18)
			ah := 0.07 * math.Exp(-(v+65)/20)
			bh := 1 / (math.Exp(-(v+35)/10) + 1)
			nInf, mInf, hInf := an/(an+bn), am/(am+bm), ah/(ah+bh)

			wInf := sc / (1 + sc*sc) * (nInf + sc*(1-hInf))
			tauW := 1 + 5*math.Exp(-(v+55)*(v+55))
			dw := 3 * (wInf - w) / tauW

			q := w / sc
			dv := (stim - 120*mInf*mInf*mInf*(1-w)*(v-50) - 36*q*q*q*q*(v+77) - 0.3*(v+54.387)) / 0.75

			expectTick("rinzel", goldenDt, map[string]float64{"v": v, "w": w}, stim,
				golden{
					states:   map[string]float64{"v": v + dt*dv, "w": w + dt*dw},
					warnings: s1 + s2,
				})
		},
		Entry("at rest", -70.0, 0.0),
		Entry("on the n singular point", -55.0, 0.0),
		Entry("on the m singular point", -40.0, 2.0),
		Entry("depolarised", -20.0, 0.0),
		Entry("near the Na peak", 10.0, 0.0),
	)

	DescribeTable("connor_stevens",
		func(v, stim float64) {
			n, m, h, a, b := 0.3, 0.1, 0.6, 0.5, 0.4
			dt := goldenDt * 1e3

			an, s1 := rate(-0.01, v+50-4.3, 10)
			bn := 0.125 * math.Exp(-(v+60-4.3)/80)
			am, s2 := rate(-0.1, v+35-5.3, 10)
			bm := 4 * math.Exp(-(v+60-5.3)/18)
			ah := 0.07 * math.Exp(-(v+60-12)/20)
			bh := 1 / (1 + math.Exp(-(v+30-12)/10))

			nInf, tauN := an/(an+bn), 2/(3.8*(an+bn))
			mInf, tauM := am/(am+bm), 1/(3.8*(am+bm))
			hInf, tauH := ah/(ah+bh), 1/(3.8*(ah+bh))
			aInf := math.Cbrt(0.0761 * math.Exp((v+94.22)/31.84) / (1 + math.Exp((v+1.17)/28.93)))
			tauA := 0.3632 + 1.158/(1+math.Exp((v+55.96)/20.12))
			bInf := math.Pow(1/(1+math.Exp((v+53.3)/14.54)), 4)
			tauB := 1.24 + 2.678/(1+math.Exp((v+50)/16.027))

			dv := stim - 120*m*m*m*h*(v-55) - 20*n*n*n*n*(v+72) - 0.3*(v+17) - 47.7*a*a*a*b*(v+75)

			expectTick("connor_stevens", goldenDt,
				map[string]float64{"v": v, "n": n, "m": m, "h": h, "a": a, "b": b}, stim,
				golden{
					states: map[string]float64{
						"v": v + dt*dv,
						"n": n + dt*(nInf-n)/tauN,
						"m": m + dt*(mInf-m)/tauM,
						"h": h + dt*(hInf-h)/tauH,
						"a": a + dt*(aInf-a)/tauA,
						"b": b + dt*(bInf-b)/tauB,
					},
					warnings: s1 + s2,
				})
		},
		Entry("at rest", -70.0, 0.0),
		Entry("on the n singular point", -45.7, 0.0),
		Entry("on the m singular point", -29.7, 8.5),
		Entry("depolarised", 0.0, 0.0),
		Entry("near the Na peak", 20.0, 0.0),
	)

	DescribeTable("wilson",
		func(v, stim float64) {
			r := 0.088
			dt := goldenDt * 1e3

			dr := (0.0135*v + 1.03 - r) / 1.9
			iNa := (17.81 + 0.4771*v + 0.003263*v*v) * (v - 55)
			dv := (stim - iNa - 26*r*(v+92)) / 1.2

			expectTick("wilson", goldenDt, map[string]float64{"v": v}, stim,
				golden{states: map[string]float64{"v": v + dt*dv, "r": r + dt*dr}})
		},
		Entry("at rest", -70.0, 0.0),
		Entry("driven", -60.0, 1.0),
		Entry("depolarised", -20.0, 0.0),
		Entry("near the Na peak", 30.0, 0.0),
	)

	DescribeTable("iaf",
		func(v, stim, wantV, wantSpike float64) {
			m := build("iaf", engine.Options{Dt: 1e-3, States: map[string]float64{"v": v}})
			snap := step(m, stim)
			Expect(snap.Value("v")[0]).To(BeNumerically("~", wantV, goldenTol))
			Expect(snap.Spike[0]).To(Equal(wantSpike))
		},
		Entry("bias only", 0.0, 0.0, 1e-3*0.01/5, 0.0),
		Entry("driven", 0.01, 0.5, 0.01+1e-3*0.51/5, 0.0),
		Entry("crossing vt resets to 0", 0.024, 5.0, 0.0, 1.0),
	)

	DescribeTable("leaky_iaf",
		func(v, stim, wantV, wantSpike float64) {
			m := build("leaky_iaf", engine.Options{Dt: 1e-3, States: map[string]float64{"v": v}})
			snap := step(m, stim)
			Expect(snap.Value("v")[0]).To(BeNumerically("~", wantV, goldenTol))
			Expect(snap.Spike[0]).To(Equal(wantSpike))
		},
		Entry("leaking toward vr", -0.05, 0.0, -0.05+1e-3*(-(-0.05+0.07)/0.2)/1.5, 0.0),
		Entry("driven", -0.03, 0.5, -0.03+1e-3*(-(-0.03+0.07)/0.2+0.5)/1.5, 0.0),
		Entry("crossing vt resets to vr", -0.0251, 2.0, -0.070, 1.0),
	)
})
