// Package harness runs several clustering algorithms over the same point
// set and scores every labelling.
package harness

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/cluster"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/observability"
)

// Result is the outcome of one algorithm. Err is set when the algorithm
// failed on its own, in which case Labels is nil and Score not applicable.
type Result struct {
	Algorithm        string
	DisplayName      string
	Params           cluster.Params
	Labels           []int
	Score            Score
	Sizes            map[int]int
	TotalClusters    int
	NonNoiseClusters int
	Duration         time.Duration
	Err              error
}

type Option func(*Harness)

// WithParallelism caps the number of algorithms running at once. Values
// below 1 remove the cap.
func WithParallelism(n int) Option {
	return func(h *Harness) {
		h.parallelism = n
	}
}

type Harness struct {
	parallelism int
}

func New(opts ...Option) *Harness {
	h := &Harness{}
	for _, f := range opts {
		f(h)
	}
	return h
}

// Compare validates the input, runs every configured algorithm and returns
// one result per algorithm in canonical order. Invalid input yields a
// *errs.ValidationError and no results.
func (h *Harness) Compare(ctx context.Context, points [][]float64, configs map[string]cluster.Params) ([]Result, error) {
	names, err := validate(points, configs)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	results := make([]Result, len(names))

	g, gctx := errgroup.WithContext(ctx)
	if h.parallelism > 0 {
		g.SetLimit(h.parallelism)
	}
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = run(gctx, name, points, configs[name])
			observability.RecordCompareRun(gctx, name, results[i].Err)

			if err := results[i].Err; err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.Warnf("algorithm %s failed: %v", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}

	return results, nil
}

func run(ctx context.Context, name string, points [][]float64, p cluster.Params) Result {
	res := Result{
		Algorithm:   name,
		DisplayName: cluster.DisplayName(name),
		Params:      p,
		Score:       NotApplicable(),
	}

	start := time.Now()
	labels, err := cluster.Run(ctx, name, points, p)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}

	res.Labels = labels
	res.Sizes = make(map[int]int)
	for _, l := range labels {
		res.Sizes[l]++
	}
	res.TotalClusters = len(res.Sizes)
	res.NonNoiseClusters = res.TotalClusters
	if _, ok := res.Sizes[cluster.Noise]; ok {
		res.NonNoiseClusters--
	}
	res.Score = Evaluate(points, labels)
	return res
}

// validate checks the whole request before anything runs and returns the
// configured algorithm names in canonical order.
func validate(points [][]float64, configs map[string]cluster.Params) ([]string, error) {
	const op = "compare"
	var problems []errs.Problem

	if len(points) == 0 {
		problems = append(problems, errs.Problem{Field: "points", Reason: "empty point set"})
	} else {
		dim := len(points[0])
		if dim == 0 {
			problems = append(problems, errs.Problem{Field: "points", Reason: "points have no coordinates"})
		}
		for i, p := range points {
			field := fmt.Sprintf("points[%d]", i)
			if len(p) != dim {
				problems = append(problems, errs.Problem{Field: field, Reason: fmt.Sprintf("has %d coordinates, expected %d", len(p), dim)})
				continue
			}
			for _, v := range p {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					problems = append(problems, errs.Problem{Field: field, Reason: "coordinates must be finite"})
					break
				}
			}
		}
	}

	if len(configs) == 0 {
		problems = append(problems, errs.Problem{Field: "algorithms", Reason: "no algorithm selected"})
	}

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := cluster.Rank(names[i]), cluster.Rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		err := cluster.Validate(name, configs[name])
		if err == nil {
			continue
		}
		var verr *errs.ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		problems = append(problems, verr.Problems...)
	}

	if len(problems) > 0 {
		return nil, errs.Validation(op, problems...)
	}
	return names, nil
}
