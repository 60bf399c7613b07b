// Package cluster implements the clustering algorithms compared by the
// harness and used by the offline fit: k-means, DBSCAN, Ward agglomerative
// clustering and Gaussian mixtures.
package cluster

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
)

// Algorithm names.
const (
	KMeans        = "kmeans"
	DBSCAN        = "dbscan"
	Agglomerative = "agglomerative"
	GMM           = "gmm"
)

// Noise is the label DBSCAN assigns to points that belong to no cluster.
const Noise = -1

const (
	defaultKMeansIterations = 300
	defaultGMMIterations    = 100
	defaultGMMTolerance     = 1e-3
)

// Params is the parameter set of one algorithm. Algorithm returns the name
// of the algorithm the set belongs to.
type Params interface {
	Algorithm() string
}

type KMeansParams struct {
	Clusters      int    `json:"clusters" toml:"clusters" validate:"min=1"`
	Seed          *int64 `json:"seed" toml:"seed" validate:"required"`
	MaxIterations int    `json:"max_iterations,omitempty" toml:"max_iterations" validate:"min=0"`
}

func (KMeansParams) Algorithm() string { return KMeans }

// DBSCANParams.Metric is the neighbourhood distance; empty means euclidean.
type DBSCANParams struct {
	Eps        float64 `json:"eps" toml:"eps" validate:"gt=0"`
	MinSamples int     `json:"min_samples" toml:"min_samples" validate:"min=1"`
	Metric     string  `json:"metric,omitempty" toml:"metric" validate:"omitempty,oneof=euclidean chebyshev manhattan"`
}

func (DBSCANParams) Algorithm() string { return DBSCAN }

type AgglomerativeParams struct {
	Clusters int `json:"clusters" toml:"clusters" validate:"min=1"`
}

func (AgglomerativeParams) Algorithm() string { return Agglomerative }

type GMMParams struct {
	Components    int     `json:"components" toml:"components" validate:"min=1"`
	Seed          *int64  `json:"seed" toml:"seed" validate:"required"`
	MaxIterations int     `json:"max_iterations,omitempty" toml:"max_iterations" validate:"min=0"`
	Tolerance     float64 `json:"tolerance,omitempty" toml:"tolerance" validate:"min=0"`
}

func (GMMParams) Algorithm() string { return GMM }

type algorithm struct {
	display string
	params  func() Params
	run     func(ctx context.Context, points [][]float64, p Params) ([]int, error)
}

var order = []string{KMeans, DBSCAN, Agglomerative, GMM}

var registry = map[string]algorithm{
	KMeans: {
		display: "KMeans",
		params:  func() Params { return &KMeansParams{} },
		run: func(ctx context.Context, points [][]float64, p Params) ([]int, error) {
			kp := p.(*KMeansParams)
			m, err := FitKMeans(ctx, points, kp.Clusters, *kp.Seed, kp.MaxIterations)
			if err != nil {
				return nil, err
			}
			return m.Labels, nil
		},
	},
	DBSCAN: {
		display: "DBSCAN",
		params:  func() Params { return &DBSCANParams{} },
		run: func(ctx context.Context, points [][]float64, p Params) ([]int, error) {
			dp := p.(*DBSCANParams)
			return FitDBSCAN(ctx, points, dp.Eps, dp.MinSamples, dp.Metric)
		},
	},
	Agglomerative: {
		display: "Agglomerative Clustering",
		params:  func() Params { return &AgglomerativeParams{} },
		run: func(ctx context.Context, points [][]float64, p Params) ([]int, error) {
			return FitWard(ctx, points, p.(*AgglomerativeParams).Clusters)
		},
	},
	GMM: {
		display: "Gaussian Mixture Model (GMM)",
		params:  func() Params { return &GMMParams{} },
		run: func(ctx context.Context, points [][]float64, p Params) ([]int, error) {
			gp := p.(*GMMParams)
			m, err := FitGMM(ctx, points, gp.Components, *gp.Seed, gp.MaxIterations, gp.Tolerance)
			if err != nil {
				return nil, err
			}
			return m.Labels, nil
		},
	},
}

// Names lists the known algorithms in canonical order.
func Names() []string {
	names := make([]string, len(order))
	copy(names, order)
	return names
}

// Rank returns the canonical position of the algorithm, or len(Names()) for
// unknown names.
func Rank(name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return len(order)
}

// DisplayName returns the human readable name, or the name itself for
// unknown algorithms.
func DisplayName(name string) string {
	if a, ok := registry[name]; ok {
		return a.display
	}
	return name
}

// ParamsFor returns a zero parameter set for decoding into.
func ParamsFor(name string) (Params, error) {
	a, ok := registry[name]
	if !ok {
		return nil, errs.Invalid("params", name, fmt.Sprintf("unknown algorithm, expected one of %v", order))
	}
	return a.params(), nil
}

var validate = errs.NewValidator()

// Validate checks that p is a well-formed parameter set for the algorithm
// called name.
func Validate(name string, p Params) error {
	if _, ok := registry[name]; !ok {
		return errs.Invalid("params", name, fmt.Sprintf("unknown algorithm, expected one of %v", order))
	}
	if p == nil || (reflect.ValueOf(p).Kind() == reflect.Ptr && reflect.ValueOf(p).IsNil()) {
		return errs.Invalid("params", name, "parameters are missing")
	}
	if p.Algorithm() != name {
		return errs.Invalid("params", name, fmt.Sprintf("parameters belong to %q", p.Algorithm()))
	}
	p = normalize(p)
	if err := validate.Struct(p); err != nil {
		return errs.FromValidator("params: "+name, err)
	}
	return nil
}

// Run validates p and runs the algorithm over points.
func Run(ctx context.Context, name string, points [][]float64, p Params) ([]int, error) {
	if err := Validate(name, p); err != nil {
		return nil, err
	}
	return registry[name].run(ctx, points, normalize(p))
}

// normalize turns value parameter sets into pointers so every algorithm
// sees the same shape.
func normalize(p Params) Params {
	switch v := p.(type) {
	case KMeansParams:
		return &v
	case DBSCANParams:
		return &v
	case AgglomerativeParams:
		return &v
	case GMMParams:
		return &v
	}
	return p
}

// Distinct returns the labels present in labels, sorted.
func Distinct(labels []int) []int {
	seen := make(map[int]struct{})
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}
