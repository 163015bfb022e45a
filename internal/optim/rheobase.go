package optim

import (
	"context"
	"fmt"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/experiment"
)

// Rheobase bisects [lo, hi] for the smallest constant stimulus that makes
// the first batch element spike within base.Duration. hi must elicit a
// spike and lo must not. The result is within tol of the boundary.
func Rheobase(ctx context.Context, base *config.Config, lo, hi, tol float64) (float64, error) {
	if tol <= 0 || hi <= lo {
		return 0, &dynamo.ConfigError{Kind: "rheobase",
			Err: fmt.Errorf("%w: need lo < hi and tol > 0", dynamo.ErrInvalidConfig)}
	}

	fires := func(amp float64) (bool, error) {
		cfg := base.Clone()
		cfg.Batch = 1
		cfg.Stimulus = config.StimulusConfig{Kind: "constant", Amplitude: amp}

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return false, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return false, err
		}
		n, ok := result.Metrics["spike_count"]
		if !ok {
			return false, &dynamo.ConfigError{Kind: "variant", Name: cfg.Variant,
				Err: fmt.Errorf("%w: no spike measure", dynamo.ErrInvalidConfig)}
		}
		return n > 0, nil
	}

	if ok, err := fires(hi); err != nil {
		return 0, err
	} else if !ok {
		return 0, fmt.Errorf("%w: no spike at upper bound %g", dynamo.ErrInvalidConfig, hi)
	}
	if ok, err := fires(lo); err != nil {
		return 0, err
	} else if ok {
		return 0, fmt.Errorf("%w: already spiking at lower bound %g", dynamo.ErrInvalidConfig, lo)
	}

	for hi-lo > tol {
		mid := (lo + hi) / 2
		ok, err := fires(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, nil
}
