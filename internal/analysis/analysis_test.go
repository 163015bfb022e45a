package analysis

import (
	"context"
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/experiment"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

func TestDetectSpikes(t *testing.T) {
	trace := []float64{-65, -30, 10, 40, -70, -65, 5, -60, 0}
	got := DetectSpikes(trace, 0)
	want := []int{2, 6, 8}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("spike %d: expected index %d, got %d", i, want[i], got[i])
		}
	}
}

func TestSpikeIndicesAndTimes(t *testing.T) {
	idx := SpikeIndices([]float64{0, 1, 0, 0, 1})
	times := SpikeTimes([]float64{0, 0.1, 0.2, 0.3, 0.4}, idx)
	if len(times) != 2 || times[0] != 0.1 || times[1] != 0.4 {
		t.Errorf("unexpected spike times %v", times)
	}
}

func TestISIStatsRegular(t *testing.T) {
	stats := ISIStats([]float64{0.1, 0.2, 0.3, 0.4, 0.5})
	if stats.Count != 4 {
		t.Errorf("expected 4 intervals, got %d", stats.Count)
	}
	if math.Abs(stats.Mean-0.1) > 1e-12 {
		t.Errorf("expected mean 0.1, got %v", stats.Mean)
	}
	if stats.CV > 1e-9 {
		t.Errorf("regular train should have CV ~0, got %v", stats.CV)
	}
}

func TestISIStatsIrregular(t *testing.T) {
	stats := ISIStats([]float64{0, 0.1, 0.4})
	if math.Abs(stats.Mean-0.2) > 1e-12 {
		t.Errorf("expected mean 0.2, got %v", stats.Mean)
	}
	// Sample std of {0.1, 0.3}.
	if math.Abs(stats.Std-math.Sqrt(0.02)) > 1e-12 {
		t.Errorf("expected std %v, got %v", math.Sqrt(0.02), stats.Std)
	}
}

func TestISIStatsTooFew(t *testing.T) {
	stats := ISIStats([]float64{0.3})
	if stats.Count != 0 || !math.IsNaN(stats.Mean) || !math.IsNaN(stats.CV) {
		t.Errorf("expected NaN stats, got %+v", stats)
	}
}

func TestDominantFrequency(t *testing.T) {
	const dt = 1e-3
	data := make([]float64, 1000)
	for i := range data {
		data[i] = -60 + 5*math.Sin(2*math.Pi*50*float64(i)*dt)
	}

	if f := DominantFrequency(data, dt); math.Abs(f-50) > 1e-9 {
		t.Errorf("expected 50 Hz, got %v", f)
	}

	ps := PowerSpectrum(data)
	if len(ps) != 501 {
		t.Errorf("expected 501 bins, got %d", len(ps))
	}
	if ps[0] > 1e-9 {
		t.Errorf("mean should be removed, DC bin %v", ps[0])
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	if f := DominantFrequency([]float64{1, 1, 1, 1}, 0.1); f != 0 {
		t.Errorf("flat trace should give 0, got %v", f)
	}
	if PowerSpectrum([]float64{1}) != nil {
		t.Error("expected nil spectrum for a single sample")
	}
}

func TestFICurveIAFMonotone(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Variant = "iaf"
	cfg.Dt = 1e-3
	cfg.Duration = 1

	amps := []float64{0, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}
	points, err := FICurve(cfg, amps)
	if err != nil {
		t.Fatalf("ficurve: %v", err)
	}
	if len(points) != len(amps) {
		t.Fatalf("expected %d points, got %d", len(amps), len(points))
	}
	if points[0].Spikes != 0 {
		t.Errorf("bias alone should not reach threshold in 1 s, got %d spikes", points[0].Spikes)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Amplitude != amps[i] {
			t.Errorf("point %d out of order", i)
		}
		if points[i].Rate < points[i-1].Rate {
			t.Errorf("rate fell from %v to %v between %v and %v",
				points[i-1].Rate, points[i].Rate, amps[i-1], amps[i])
		}
	}
	if points[len(points)-1].Rate <= 0 {
		t.Error("strong drive should fire")
	}
}

func TestFICurveConductanceBased(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Integrator = "rk4"
	cfg.Duration = 0.1

	points, err := FICurve(cfg, []float64{0, 10})
	if err != nil {
		t.Fatalf("ficurve: %v", err)
	}
	if points[1].Rate <= points[0].Rate {
		t.Errorf("10 µA should fire faster than rest: %+v", points)
	}
}

func TestFICurveCountsLikeRunMetrics(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Integrator = "rk4"
	cfg.Duration = 0.05
	cfg.Stimulus = config.StimulusConfig{Kind: "constant", Amplitude: 10}

	points, err := FICurve(cfg, []float64{10})
	if err != nil {
		t.Fatalf("ficurve: %v", err)
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if points[0].Spikes == 0 {
		t.Fatal("expected spikes at 10 µA")
	}
	if got := result.Metrics["spike_count"]; got != float64(points[0].Spikes) {
		t.Errorf("run counted %v spikes, FI curve counted %d", got, points[0].Spikes)
	}
}

func TestFICurveErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Variant = "morris_lecar"
	if _, err := FICurve(cfg, []float64{1}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	cfg.Variant = "nope"
	if _, err := FICurve(cfg, []float64{1}); !errors.Is(err, dynamo.ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}

	points, err := FICurve(config.DefaultConfig(), nil)
	if err != nil || points != nil {
		t.Errorf("expected empty curve, got %v %v", points, err)
	}
}

func TestPhasePlane(t *testing.T) {
	cfg := config.GetPreset("hodgkin_huxley", "spiking")
	cfg.Duration = 0.02

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	p, err := NewPhasePlane(result, "v", "n", 0)
	if err != nil {
		t.Fatalf("phase plane: %v", err)
	}
	if len(p.Points) != result.Steps+1 {
		t.Errorf("expected %d points, got %d", result.Steps+1, len(p.Points))
	}
	minX, maxX, _, _ := p.Bounds()
	if maxX <= minX {
		t.Errorf("v should move, bounds [%v, %v]", minX, maxX)
	}

	out := p.Render(40, 12)
	if !strings.Contains(out, "•") || strings.Count(out, "\n") != 15 {
		t.Errorf("unexpected render:\n%s", out)
	}

	if _, err := NewPhasePlane(result, "v", "q", 0); err == nil {
		t.Error("expected unknown state error")
	}
	if _, err := NewPhasePlane(result, "v", "n", 1); err == nil {
		t.Error("expected out of range error")
	}
}
