package neuron_test

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/integrators"
	"github.com/san-kum/neurosim/internal/neuron"
)

func build(name string, opts engine.Options) *engine.Model {
	m, err := neuron.New(name, opts)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return m
}

func step(m *engine.Model, stim ...float64) engine.Snapshot {
	snap, err := m.Step(dynamo.Vec(stim))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return snap
}

var _ = Describe("Registry", func() {
	It("lists every variant in sorted order", func() {
		Expect(neuron.Names()).To(Equal([]string{
			"connor_stevens", "hodgkin_huxley", "iaf", "leaky_iaf",
			"morris_lecar", "rinzel", "wilson",
		}))
	})

	It("exposes static metadata without building a model", func() {
		catalog := neuron.Catalog()
		Expect(catalog).To(HaveLen(7))
		for _, meta := range catalog {
			Expect(meta.Description).NotTo(BeEmpty())
			Expect(meta.Defaults.States).NotTo(BeEmpty())
		}
		Expect(neuron.HodgkinHuxleyMeta.Scale()).To(Equal(1e3))
		Expect(neuron.IAFMeta.Scale()).To(Equal(1.0))
		Expect(neuron.MorrisLecarMeta.Unimplemented).To(BeTrue())
	})

	It("hands out metadata that callers cannot use to alter the defaults", func() {
		for _, meta := range neuron.Catalog() {
			for i := range meta.Defaults.States {
				meta.Defaults.States[i].Init = 0.02
			}
			for i := range meta.Defaults.Params {
				meta.Defaults.Params[i].Value = -1
			}
		}
		v, err := neuron.Lookup("iaf")
		Expect(err).NotTo(HaveOccurred())
		v.Meta().Defaults.States[1].Init = 0.03
		build("iaf", engine.Options{}).Meta().Defaults.Params[0].Value = 7

		spec, ok := neuron.IAFMeta.Defaults.State("v")
		Expect(ok).To(BeTrue())
		Expect(spec.Init).To(Equal(0.0))
		Expect(neuron.IAFMeta.Defaults.Params[0].Value).To(Equal(0.025))

		m := build("iaf", engine.Options{})
		v0, _ := m.State("v")
		Expect(v0).To(Equal(dynamo.Vec{0}))
		vt, _ := m.Param("vt")
		Expect(vt).To(Equal(0.025))
	})

	It("rejects unknown variants", func() {
		_, err := neuron.Lookup("izhikevich")
		Expect(errors.Is(err, dynamo.ErrUnknownVariant)).To(BeTrue())

		var cfgErr *dynamo.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(cfgErr.Name).To(Equal("izhikevich"))
	})

	It("rejects unknown overrides", func() {
		_, err := neuron.New("iaf", engine.Options{Params: map[string]float64{"gNa": 1}})
		Expect(errors.Is(err, dynamo.ErrUnknownName)).To(BeTrue())
	})
})

var _ = Describe("IAF", func() {
	It("rises monotonically, resets to 0 with a one-tick spike", func() {
		m := build("iaf", engine.Options{Dt: 1e-3})

		prev := 0.0
		var snap engine.Snapshot
		for i := 0; i < 1000; i++ {
			snap = step(m, 0.99)
			if snap.Spike[0] == 1 {
				break
			}
			Expect(snap.Value("v")[0]).To(BeNumerically(">", prev))
			prev = snap.Value("v")[0]
		}

		Expect(snap.Spike[0]).To(Equal(1.0))
		Expect(snap.Value("v")[0]).To(Equal(0.0))
		Expect(prev).To(BeNumerically("<=", neuron.IAFMeta.Defaults.Params[0].Value))

		snap = step(m, 0.99)
		Expect(snap.Spike[0]).To(Equal(0.0))
		Expect(snap.Value("v")[0]).To(BeNumerically(">", 0))
	})
})

var _ = Describe("LeakyIAF", func() {
	It("decays monotonically toward vr without overshoot", func() {
		m := build("leaky_iaf", engine.Options{Dt: 1e-3})
		vr, _ := m.Param("vr")

		prev := -0.05
		for i := 0; i < 2000; i++ {
			snap := step(m)
			v := snap.Value("v")[0]
			Expect(v).To(BeNumerically("<=", prev))
			Expect(v).To(BeNumerically(">=", vr))
			Expect(snap.Spike[0]).To(Equal(0.0))
			prev = v
		}
		Expect(prev).To(BeNumerically("~", vr, 1e-4))
	})

	It("fires and resets to vr under strong drive", func() {
		m := build("leaky_iaf", engine.Options{Dt: 1e-4})
		vr, _ := m.Param("vr")

		fired := false
		for i := 0; i < 5000 && !fired; i++ {
			snap := step(m, 1)
			if snap.Spike[0] == 1 {
				fired = true
				Expect(snap.Value("v")[0]).To(Equal(vr))
			}
		}
		Expect(fired).To(BeTrue())
	})
})

var _ = Describe("HodgkinHuxley", func() {
	It("stays near steady state at rest", func() {
		m := build("hodgkin_huxley", engine.Options{})
		v0, _ := m.State("v")

		snap := step(m, 0)
		Expect(snap.Value("v")[0]).To(BeNumerically("~", v0[0], 0.1))
	})

	It("fires action potentials under sustained current", func() {
		m := build("hodgkin_huxley", engine.Options{Integrator: integrators.NewRK4()})

		peak := -100.0
		for i := 0; i < 5000; i++ {
			snap := step(m, 10)
			if v := snap.Value("v")[0]; v > peak {
				peak = v
			}
		}
		Expect(peak).To(BeNumerically(">", 0))
	})

	It("substitutes the limit at the singular point", func() {
		m := build("hodgkin_huxley", engine.Options{States: map[string]float64{"v": -55}})

		snap := step(m, 0)
		Expect(m.Warnings()).To(Equal(1))
		Expect(dynamo.State(snap.Value("n")).IsValid()).To(BeTrue())
	})
})

var _ = Describe("Wilson", func() {
	It("holds its resting potential", func() {
		m := build("wilson", engine.Options{})

		var snap engine.Snapshot
		for i := 0; i < 100; i++ {
			snap = step(m)
		}
		Expect(snap.Value("v")[0]).To(BeNumerically("~", -70, 1))
	})
})

var _ = Describe("MorrisLecar", func() {
	It("leaves every state unchanged under any stimulus", func() {
		m := build("morris_lecar", engine.Options{Strict: true})
		rng := rand.New(rand.NewSource(7))

		for i := 0; i < 200; i++ {
			snap := step(m, rng.NormFloat64()*50)
			Expect(snap.Value("r")).To(Equal(dynamo.Vec{0}))
			Expect(snap.Value("s")).To(Equal(dynamo.Vec{0}))
		}
	})
})

var _ = Describe("Clamp invariant", func() {
	DescribeTable("bounded states stay in range under random stimulus",
		func(name string) {
			m := build(name, engine.Options{Batch: 3})
			meta := m.Meta()
			rng := rand.New(rand.NewSource(42))

			for i := 0; i < 2000; i++ {
				stim := dynamo.Vec{
					rng.Float64()*400 - 200,
					rng.NormFloat64() * 20,
					0,
				}
				snap, err := m.Step(stim)
				Expect(err).NotTo(HaveOccurred())

				for _, spec := range meta.Defaults.States {
					if !spec.Bounded {
						continue
					}
					for _, x := range snap.Value(spec.Name) {
						Expect(x).To(BeNumerically(">=", spec.Min))
						Expect(x).To(BeNumerically("<=", spec.Max))
					}
				}
			}
		},
		Entry("hodgkin_huxley", "hodgkin_huxley"),
		Entry("rinzel", "rinzel"),
		Entry("connor_stevens", "connor_stevens"),
		Entry("leaky_iaf", "leaky_iaf"),
	)
})

var _ = Describe("Batch simulation", func() {
	DescribeTable("matches independent single-element runs",
		func(name string, stim []float64) {
			batch := build(name, engine.Options{Batch: len(stim)})
			singles := make([]*engine.Model, len(stim))
			for i := range singles {
				singles[i] = build(name, engine.Options{})
			}

			for tick := 0; tick < 500; tick++ {
				got := step(batch, stim...)
				for i, single := range singles {
					want := step(single, stim[i])
					for state, vals := range want.States {
						Expect(got.Value(state)[i]).To(Equal(vals[0]), "tick %d state %s", tick, state)
					}
					Expect(got.Spike[i]).To(Equal(want.Spike[0]))
				}
			}
		},
		Entry("identical hodgkin_huxley", "hodgkin_huxley", []float64{10, 10}),
		Entry("heterogeneous connor_stevens", "connor_stevens", []float64{0, 8.5}),
		Entry("identical iaf", "iaf", []float64{0.5, 0.5}),
	)
})
