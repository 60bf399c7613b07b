package cluster

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/geom"
)

var ErrTooFewPoints = errors.New("fewer points than clusters")

// KMeansModel is a fitted k-means partition.
type KMeansModel struct {
	Centroids  [][]float64
	Labels     []int
	Inertia    float64
	Iterations int
}

// FitKMeans partitions points into k clusters. Centroids are seeded with
// k-means++ from a source derived from seed, so equal inputs give equal
// models. maxIter <= 0 selects the default.
func FitKMeans(ctx context.Context, points [][]float64, k int, seed int64, maxIter int) (*KMeansModel, error) {
	if k < 1 {
		return nil, fmt.Errorf("kmeans: clusters must be positive, got %d", k)
	}
	if len(points) < k {
		return nil, fmt.Errorf("kmeans: n_samples=%d, n_clusters=%d: %w", len(points), k, ErrTooFewPoints)
	}
	if maxIter <= 0 {
		maxIter = defaultKMeansIterations
	}

	rnd := rand.New(rand.NewSource(seed))
	centroids := seedPlusPlus(points, k, rnd)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	m := &KMeansModel{Centroids: centroids, Labels: labels}
	for m.Iterations < maxIter {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.Iterations++

		changed := assign(points, centroids, labels)
		if !changed {
			break
		}
		update(points, centroids, labels)
	}

	m.Inertia = inertia(points, centroids, labels)
	return m, nil
}

// Nearest returns the index of the centroid closest to p. Ties resolve to the
// lowest index.
func Nearest(centroids [][]float64, p []float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centroids {
		if d := geom.SquaredEuclidean(p, c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func seedPlusPlus(points [][]float64, k int, rnd *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := points[rnd.Intn(len(points))]
	centroids = append(centroids, geom.NewPoint(first).Copy())

	dist := make([]float64, len(points))
	for i, p := range points {
		dist[i] = geom.SquaredEuclidean(p, first)
	}

	for len(centroids) < k {
		total := floats.Sum(dist)
		next := rnd.Intn(len(points))
		if total > 0 {
			target := rnd.Float64() * total
			for i, d := range dist {
				target -= d
				if target < 0 {
					next = i
					break
				}
			}
		}

		c := geom.NewPoint(points[next]).Copy()
		centroids = append(centroids, c)
		for i, p := range points {
			if d := geom.SquaredEuclidean(p, c); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return centroids
}

func assign(points, centroids [][]float64, labels []int) bool {
	changed := false
	for i, p := range points {
		if l := Nearest(centroids, p); l != labels[i] {
			labels[i] = l
			changed = true
		}
	}
	return changed
}

// update moves every centroid to the mean of its members. A centroid that
// lost all members stays where it is.
func update(points, centroids [][]float64, labels []int) {
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for j := range sums {
		sums[j] = make([]float64, len(centroids[j]))
	}
	for i, p := range points {
		floats.Add(sums[labels[i]], p)
		counts[labels[i]]++
	}
	for j := range centroids {
		if counts[j] == 0 {
			continue
		}
		floats.ScaleTo(centroids[j], 1/float64(counts[j]), sums[j])
	}
}

func inertia(points, centroids [][]float64, labels []int) float64 {
	var s float64
	for i, p := range points {
		s += geom.SquaredEuclidean(p, centroids[labels[i]])
	}
	return s
}
