package cluster

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const regCovar = 1e-6

var ErrSingularCovariance = errors.New("covariance is not positive definite")

// GMMModel is a fitted full-covariance Gaussian mixture.
type GMMModel struct {
	Weights     []float64
	Means       [][]float64
	Covariances []*mat.SymDense
	Labels      []int
	// LogLikelihood is the mean per-point log likelihood of the last E step.
	LogLikelihood float64
	Iterations    int
	Converged     bool
}

// FitGMM fits a mixture of components Gaussians with EM. Responsibilities
// start from a seeded k-means partition. maxIter <= 0 and tol <= 0 select
// the defaults.
func FitGMM(ctx context.Context, points [][]float64, components int, seed int64, maxIter int, tol float64) (*GMMModel, error) {
	if components < 1 {
		return nil, fmt.Errorf("gmm: components must be positive, got %d", components)
	}
	if len(points) < components {
		return nil, fmt.Errorf("gmm: n_samples=%d, n_components=%d: %w", len(points), components, ErrTooFewPoints)
	}
	if maxIter <= 0 {
		maxIter = defaultGMMIterations
	}
	if tol <= 0 {
		tol = defaultGMMTolerance
	}

	km, err := FitKMeans(ctx, points, components, seed, 0)
	if err != nil {
		return nil, fmt.Errorf("gmm: initialise: %w", err)
	}

	n := len(points)
	resp := make([][]float64, n)
	for i := range resp {
		resp[i] = make([]float64, components)
		resp[i][km.Labels[i]] = 1
	}

	m := &GMMModel{LogLikelihood: math.Inf(-1)}
	for m.Iterations < maxIter {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.Iterations++

		if err := m.maximize(points, resp); err != nil {
			return nil, err
		}
		ll, err := m.expect(points, resp)
		if err != nil {
			return nil, err
		}
		change := ll - m.LogLikelihood
		m.LogLikelihood = ll
		if math.Abs(change) < tol {
			m.Converged = true
			break
		}
	}

	m.Labels = make([]int, n)
	for i := range resp {
		m.Labels[i] = floats.MaxIdx(resp[i])
	}
	return m, nil
}

func (m *GMMModel) maximize(points, resp [][]float64) error {
	n, d, k := len(points), len(points[0]), len(resp[0])
	m.Weights = make([]float64, k)
	m.Means = make([][]float64, k)
	m.Covariances = make([]*mat.SymDense, k)

	diff := make([]float64, d)
	for j := 0; j < k; j++ {
		nk := 10 * math.SmallestNonzeroFloat64
		mean := make([]float64, d)
		for i, p := range points {
			nk += resp[i][j]
			floats.AddScaled(mean, resp[i][j], p)
		}
		floats.Scale(1/nk, mean)

		cov := mat.NewSymDense(d, nil)
		for i, p := range points {
			if resp[i][j] == 0 {
				continue
			}
			floats.SubTo(diff, p, mean)
			cov.SymRankOne(cov, resp[i][j], mat.NewVecDense(d, diff))
		}
		cov.ScaleSym(1/nk, cov)
		for a := 0; a < d; a++ {
			cov.SetSym(a, a, cov.At(a, a)+regCovar)
		}

		m.Weights[j] = nk / float64(n)
		m.Means[j] = mean
		m.Covariances[j] = cov
	}
	return nil
}

// expect refreshes resp in place and returns the mean log likelihood.
func (m *GMMModel) expect(points, resp [][]float64) (float64, error) {
	d := len(points[0])
	k := len(m.Means)

	chols := make([]mat.Cholesky, k)
	logNorm := make([]float64, k)
	for j := range chols {
		if ok := chols[j].Factorize(m.Covariances[j]); !ok {
			return 0, fmt.Errorf("gmm: component %d: %w", j, ErrSingularCovariance)
		}
		logNorm[j] = math.Log(m.Weights[j]) - 0.5*(float64(d)*math.Log(2*math.Pi)+chols[j].LogDet())
	}

	var total float64
	diff := mat.NewVecDense(d, nil)
	solved := mat.NewVecDense(d, nil)
	for i, p := range points {
		for j := 0; j < k; j++ {
			diff.SubVec(mat.NewVecDense(d, p), mat.NewVecDense(d, m.Means[j]))
			if err := chols[j].SolveVecTo(solved, diff); err != nil {
				var cond mat.Condition
				if !errors.As(err, &cond) {
					return 0, fmt.Errorf("gmm: component %d: %w", j, err)
				}
			}
			resp[i][j] = logNorm[j] - 0.5*mat.Dot(diff, solved)
		}
		lse := floats.LogSumExp(resp[i])
		total += lse
		for j := range resp[i] {
			resp[i][j] = math.Exp(resp[i][j] - lse)
		}
	}
	return total / float64(len(points)), nil
}
