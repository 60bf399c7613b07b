package cluster

import (
	"context"
	"fmt"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/geom"
	"github.com/hoshangsheth/customer-segmentation-kmeans/pkg/container/kdtree"
)

type indexedPoint struct {
	geom.Point
	idx int
}

// FitDBSCAN labels density-connected regions of points. A point is a core
// point when at least minSamples points, itself included, lie within eps.
// Points reachable from no core point are labelled Noise. metric names the
// distance, see geom.DistanceFuncFor.
func FitDBSCAN(ctx context.Context, points [][]float64, eps float64, minSamples int, metric string) ([]int, error) {
	if eps <= 0 {
		return nil, fmt.Errorf("dbscan: eps must be positive, got %v", eps)
	}
	if minSamples < 1 {
		return nil, fmt.Errorf("dbscan: min_samples must be positive, got %d", minSamples)
	}

	distFn, err := geom.DistanceFuncFor(metric)
	if err != nil {
		return nil, fmt.Errorf("dbscan: %w", err)
	}

	items := make([]kdtree.Point, len(points))
	for i, p := range points {
		items[i] = indexedPoint{Point: geom.NewPoint(p), idx: i}
	}
	tree := kdtree.New(distFn)
	tree.Build(items...)

	neighbours := func(i int) ([]int, error) {
		found, err := tree.RadiusSearch(items[i], eps)
		if err != nil {
			return nil, fmt.Errorf("dbscan: %w", err)
		}
		idx := make([]int, len(found))
		for j, f := range found {
			idx[j] = f.(indexedPoint).idx
		}
		return idx, nil
	}

	labels := make([]int, len(points))
	visited := make([]bool, len(points))
	for i := range labels {
		labels[i] = Noise
	}

	cluster := 0
	for i := range points {
		if visited[i] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		visited[i] = true

		seeds, err := neighbours(i)
		if err != nil {
			return nil, err
		}
		if len(seeds) < minSamples {
			continue
		}

		labels[i] = cluster
		for len(seeds) > 0 {
			j := seeds[0]
			seeds = seeds[1:]
			if labels[j] == Noise {
				labels[j] = cluster
			}
			if visited[j] {
				continue
			}
			visited[j] = true

			more, err := neighbours(j)
			if err != nil {
				return nil, err
			}
			if len(more) >= minSamples {
				seeds = append(seeds, more...)
			}
		}
		cluster++
	}

	return labels, nil
}
