package integrators

import (
	"testing"

	"github.com/san-kum/neurosim/internal/dynamo"
)

func benchmarkIntegrator(b *testing.B, integ dynamo.Integrator, n int) {
	dyn := &decay{}
	x := make(dynamo.State, n)
	u := dynamo.Vec{1}
	for i := range x {
		x[i] = float64(i) * 0.1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(dyn, x, u, 0, 0.01)
	}
}

func BenchmarkEuler(b *testing.B)    { benchmarkIntegrator(b, NewEuler(), 4) }
func BenchmarkMidpoint(b *testing.B) { benchmarkIntegrator(b, NewMidpoint(), 4) }
func BenchmarkRK4(b *testing.B)      { benchmarkIntegrator(b, NewRK4(), 4) }
func BenchmarkRK45(b *testing.B)     { benchmarkIntegrator(b, NewRK45(), 4) }

func BenchmarkRK4_Batch1024(b *testing.B) { benchmarkIntegrator(b, NewRK4(), 1024) }
