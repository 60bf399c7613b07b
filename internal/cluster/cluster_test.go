package cluster

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/geom"
)

// blobs returns perSide points around (0,0) followed by perSide points
// around (10,10).
func blobs(perSide int) [][]float64 {
	rnd := rand.New(rand.NewSource(7))
	points := make([][]float64, 0, 2*perSide)
	for _, c := range []float64{0, 10} {
		for i := 0; i < perSide; i++ {
			points = append(points, []float64{c + rnd.Float64() - 0.5, c + rnd.Float64() - 0.5})
		}
	}
	return points
}

func identical(n int) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		points[i] = []float64{1, 1}
	}
	return points
}

// separates reports whether the first and second half of labels form two
// different pure groups.
func separates(labels []int) bool {
	half := len(labels) / 2
	for i := 1; i < half; i++ {
		if labels[i] != labels[0] || labels[half+i] != labels[half] {
			return false
		}
	}
	return labels[0] != labels[half]
}

func seed(v int64) *int64 {
	return &v
}

func TestFitKMeans(t *testing.T) {
	tests := []struct {
		name        string
		points      [][]float64
		k           int
		expectedErr error
	}{
		{name: "two_blobs", points: blobs(20), k: 2},
		{name: "more_clusters_than_needed", points: blobs(20), k: 5},
		{name: "identical_points", points: identical(10), k: 3},
		{name: "every_point_its_own", points: blobs(2), k: 4},
		{name: "too_few_points", points: blobs(1), k: 3, expectedErr: ErrTooFewPoints},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := FitKMeans(context.Background(), test.points, test.k, 42, 0)
			if test.expectedErr != nil {
				require.True(t, errors.Is(err, test.expectedErr), "got: %v", err)
				return
			}
			require.NoError(t, err)
			require.Len(t, m.Labels, len(test.points))
			assert.LessOrEqual(t, len(Distinct(m.Labels)), test.k, spew.Sdump(m.Labels))
			assert.Len(t, m.Centroids, test.k)
			for i, p := range test.points {
				assert.Equal(t, Nearest(m.Centroids, p), m.Labels[i])
			}
		})
	}
}

func TestFitKMeans_Deterministic(t *testing.T) {
	points := blobs(30)
	m1, err := FitKMeans(context.Background(), points, 3, 11, 0)
	require.NoError(t, err)
	m2, err := FitKMeans(context.Background(), points, 3, 11, 0)
	require.NoError(t, err)

	assert.Equal(t, m1.Labels, m2.Labels)
	assert.Equal(t, m1.Centroids, m2.Centroids)

	m3, err := FitKMeans(context.Background(), points, 2, 11, 0)
	require.NoError(t, err)
	assert.True(t, separates(m3.Labels), spew.Sdump(m3.Labels))
}

func TestFitKMeans_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FitKMeans(ctx, blobs(5), 2, 1, 0)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFitDBSCAN(t *testing.T) {
	tests := []struct {
		name       string
		points     [][]float64
		eps        float64
		minSamples int
		metric     string
		check      func(t *testing.T, labels []int)
	}{
		{
			name:       "two_blobs",
			points:     blobs(20),
			eps:        2,
			minSamples: 3,
			check: func(t *testing.T, labels []int) {
				assert.True(t, separates(labels), spew.Sdump(labels))
				assert.Equal(t, []int{0, 1}, Distinct(labels))
			},
		},
		{
			name:       "all_noise",
			points:     identical(50),
			eps:        1e-6,
			minSamples: 51,
			check: func(t *testing.T, labels []int) {
				assert.Equal(t, []int{Noise}, Distinct(labels))
			},
		},
		{
			name:       "identical_points_dense",
			points:     identical(50),
			eps:        1e-6,
			minSamples: 50,
			check: func(t *testing.T, labels []int) {
				assert.Equal(t, []int{0}, Distinct(labels))
			},
		},
		{
			name:       "outlier",
			points:     append(blobs(10), []float64{100, 100}),
			eps:        2,
			minSamples: 3,
			check: func(t *testing.T, labels []int) {
				assert.Equal(t, Noise, labels[len(labels)-1])
				assert.Equal(t, []int{Noise, 0, 1}, Distinct(labels))
			},
		},
		{
			name:       "border_point",
			points:     [][]float64{{0, 0}, {0.5, 0}, {1, 0}, {1.9, 0}},
			eps:        1,
			minSamples: 3,
			check: func(t *testing.T, labels []int) {
				assert.Equal(t, []int{0, 0, 0, 0}, labels)
			},
		},
		{
			name:       "diagonal_euclidean",
			points:     [][]float64{{0, 0}, {0.8, 0.8}, {1.6, 1.6}},
			eps:        1,
			minSamples: 2,
			metric:     geom.MetricEuclidean,
			check: func(t *testing.T, labels []int) {
				assert.Equal(t, []int{Noise, Noise, Noise}, labels)
			},
		},
		{
			name:       "diagonal_chebyshev",
			points:     [][]float64{{0, 0}, {0.8, 0.8}, {1.6, 1.6}},
			eps:        1,
			minSamples: 2,
			metric:     geom.MetricChebyshev,
			check: func(t *testing.T, labels []int) {
				assert.Equal(t, []int{0, 0, 0}, labels)
			},
		},
		{
			name:       "diagonal_manhattan",
			points:     [][]float64{{0, 0}, {0.6, 0.6}},
			eps:        1,
			minSamples: 2,
			metric:     geom.MetricManhattan,
			check: func(t *testing.T, labels []int) {
				assert.Equal(t, []int{Noise, Noise}, labels)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			labels, err := FitDBSCAN(context.Background(), test.points, test.eps, test.minSamples, test.metric)
			require.NoError(t, err)
			require.Len(t, labels, len(test.points))
			test.check(t, labels)
		})
	}
}

func TestFitWard(t *testing.T) {
	tests := []struct {
		name     string
		points   [][]float64
		k        int
		expected []int
	}{
		{
			name:     "line",
			points:   [][]float64{{0}, {1}, {5}, {6}, {20}},
			k:        3,
			expected: []int{0, 0, 1, 1, 2},
		},
		{
			name:     "single_cluster",
			points:   [][]float64{{0}, {1}, {5}},
			k:        1,
			expected: []int{0, 0, 0},
		},
		{
			name:     "singletons",
			points:   [][]float64{{0}, {1}, {5}},
			k:        3,
			expected: []int{0, 1, 2},
		},
		{
			name:     "uneven_gaps",
			points:   [][]float64{{0}, {1.8}, {4}, {6}, {7.5}},
			k:        2,
			expected: []int{0, 0, 1, 1, 1},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			labels, err := FitWard(context.Background(), test.points, test.k)
			require.NoError(t, err)
			assert.Equal(t, test.expected, labels)
		})
	}

	labels, err := FitWard(context.Background(), blobs(15), 2)
	require.NoError(t, err)
	assert.True(t, separates(labels), spew.Sdump(labels))

	_, err = FitWard(context.Background(), blobs(1), 3)
	assert.True(t, errors.Is(err, ErrTooFewPoints))
}

func TestFitGMM(t *testing.T) {
	points := blobs(25)
	m, err := FitGMM(context.Background(), points, 2, 3, 0, 0)
	require.NoError(t, err)

	assert.True(t, separates(m.Labels), spew.Sdump(m.Labels))
	assert.InDelta(t, 1, m.Weights[0]+m.Weights[1], 1e-9)
	assert.True(t, m.Converged)

	again, err := FitGMM(context.Background(), points, 2, 3, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, m.Labels, again.Labels)

	single, err := FitGMM(context.Background(), identical(10), 1, 3, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, Distinct(single.Labels))

	_, err = FitGMM(context.Background(), blobs(1), 3, 3, 0, 0)
	assert.True(t, errors.Is(err, ErrTooFewPoints))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		algo    string
		params  Params
		invalid bool
	}{
		{name: "kmeans", algo: KMeans, params: &KMeansParams{Clusters: 3, Seed: seed(0)}},
		{name: "kmeans_value", algo: KMeans, params: KMeansParams{Clusters: 3, Seed: seed(1)}},
		{name: "kmeans_without_seed", algo: KMeans, params: &KMeansParams{Clusters: 3}, invalid: true},
		{name: "kmeans_zero_clusters", algo: KMeans, params: &KMeansParams{Seed: seed(1)}, invalid: true},
		{name: "dbscan", algo: DBSCAN, params: &DBSCANParams{Eps: 0.5, MinSamples: 5}},
		{name: "dbscan_zero_eps", algo: DBSCAN, params: &DBSCANParams{MinSamples: 5}, invalid: true},
		{name: "dbscan_manhattan", algo: DBSCAN, params: &DBSCANParams{Eps: 0.5, MinSamples: 5, Metric: geom.MetricManhattan}},
		{name: "dbscan_unknown_metric", algo: DBSCAN, params: &DBSCANParams{Eps: 0.5, MinSamples: 5, Metric: "cosine"}, invalid: true},
		{name: "agglomerative", algo: Agglomerative, params: &AgglomerativeParams{Clusters: 2}},
		{name: "gmm_without_seed", algo: GMM, params: &GMMParams{Components: 2}, invalid: true},
		{name: "gmm_negative_tolerance", algo: GMM, params: &GMMParams{Components: 2, Seed: seed(1), Tolerance: -1}, invalid: true},
		{name: "unknown", algo: "spectral", params: &KMeansParams{Clusters: 3, Seed: seed(0)}, invalid: true},
		{name: "mismatched_tag", algo: DBSCAN, params: &KMeansParams{Clusters: 3, Seed: seed(0)}, invalid: true},
		{name: "nil_params", algo: KMeans, params: nil, invalid: true},
		{name: "nil_pointer", algo: KMeans, params: (*KMeansParams)(nil), invalid: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Validate(test.algo, test.params)
			if !test.invalid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, errs.ErrValidation), "got: %v", err)
		})
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{KMeans, DBSCAN, Agglomerative, GMM}, Names())
	assert.Equal(t, "Gaussian Mixture Model (GMM)", DisplayName(GMM))
	assert.Equal(t, "spectral", DisplayName("spectral"))
	assert.Equal(t, 2, Rank(Agglomerative))
	assert.Equal(t, 4, Rank("spectral"))

	for _, name := range Names() {
		p, err := ParamsFor(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Algorithm())
	}

	_, err := ParamsFor("spectral")
	assert.True(t, errors.Is(err, errs.ErrValidation))

	names := Names()
	names[0] = "changed"
	assert.Equal(t, KMeans, Names()[0])
}

func TestRun(t *testing.T) {
	points := blobs(10)
	labels, err := Run(context.Background(), KMeans, points, KMeansParams{Clusters: 2, Seed: seed(5)})
	require.NoError(t, err)
	assert.True(t, separates(labels))

	_, err = Run(context.Background(), KMeans, points, KMeansParams{Clusters: 2})
	assert.True(t, errors.Is(err, errs.ErrValidation))
}
