package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/experiment"
)

// Score turns a run into a value to minimise.
type Score func(r *experiment.Result) float64

// Metric scores a run by one of its metrics.
func Metric(name string) Score {
	return func(r *experiment.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok || math.IsNaN(v) {
			return math.Inf(1)
		}
		return v
	}
}

// Target scores a run by the distance of a metric from a target value.
func Target(name string, target float64) Score {
	m := Metric(name)
	return func(r *experiment.Result) float64 {
		return math.Abs(m(r) - target)
	}
}

type Trial struct {
	Params map[string]float64
	Score  float64
}

// GridSearch evaluates every combination of parameter overrides.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs base once per grid point with the point's overrides merged
// into base.Params and returns the lowest-scoring trial. Ties keep the
// earlier point.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, score Score) (Trial, []Trial, error) {
	var trials []Trial
	best := Trial{Score: math.Inf(1)}

	err := g.searchRecursive(ctx, 0, map[string]float64{}, func(params map[string]float64) error {
		cfg := base.Clone()
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for k, v := range params {
			cfg.Params[k] = v
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		trial := Trial{Params: params, Score: score(result)}
		trials = append(trials, trial)
		if trial.Score < best.Score {
			best = trial
		}
		return nil
	})
	if err != nil {
		return Trial{}, trials, err
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval func(map[string]float64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return eval(current)
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val

		if err := g.searchRecursive(ctx, depth+1, next, eval); err != nil {
			return fmt.Errorf("%s=%g: %w", name, val, err)
		}
	}
	return nil
}
