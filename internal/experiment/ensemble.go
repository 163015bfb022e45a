package experiment

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/metrics"
)

// Ensemble runs the same configuration under consecutive seeds, one model
// per goroutine.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	metrics   func() []metrics.Metric
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics sets a factory for per-run metrics. Metrics hold state, so
// every run needs its own.
func (e *Ensemble) WithMetrics(fn func() []metrics.Metric) *Ensemble {
	e.metrics = fn
	return e
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.cfg.Clone()
			cfg.Seed = e.seedStart + int64(idx)

			exp := New(cfg)
			var ms []metrics.Metric
			if e.metrics != nil {
				ms = e.metrics()
			}
			if err := exp.Setup(ms...); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("run %d (seed %d): %w", i, e.seedStart+int64(i), err)
		}
	}
	return results, nil
}
