// Package fit trains the artifact bundle served by the inference pipeline.
package fit

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/artifact"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/cluster"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
)

// Fit scales and reduces the customers, partitions them with k-means into
// one cluster per segment, and names the clusters by mean spending on wine,
// meat and fish: the highest spending cluster gets the first segment.
func Fit(ctx context.Context, cfg *Config, customers []segment.Features) (*artifact.Bundle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)

	rows := make([][]float64, len(customers))
	for i, c := range customers {
		rows[i] = c.Vector()
	}

	scaler, err := artifact.FitScaler(cfg.Scaler, rows)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	scaled := make([][]float64, len(rows))
	for i, r := range rows {
		if scaled[i], err = scaler.Transform(r); err != nil {
			return nil, fmt.Errorf("fit: %w", err)
		}
	}

	reducer, err := artifact.FitReducer(scaled, cfg.Components)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	reduced, err := reducer.TransformAll(scaled)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	k := len(cfg.Segments)
	km, err := cluster.FitKMeans(ctx, reduced, k, cfg.Seed, 0)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	logger.Infof("k-means converged after %d iterations, inertia %.4f", km.Iterations, km.Inertia)

	order := rankBySpending(customers, km.Labels, k)
	mapping := make(map[int]string, k)
	recs := &artifact.Recommendations{}
	for rank, id := range order {
		s := cfg.Segments[rank]
		mapping[id] = s.Name
		recs.Entries = append(recs.Entries, artifact.Recommendation{Segment: s.Name, Text: s.Recommendation})
		logger.Debugf("cluster %d -> %s", id, s.Name)
	}

	note := cfg.Note
	if note == "" {
		note = fmt.Sprintf("kmeans k=%d seed=%d inertia=%.4f customers=%d", k, cfg.Seed, km.Inertia, len(customers))
	}

	b := &artifact.Bundle{
		Manifest:        artifact.NewManifest(segment.FeatureNames, cfg.Scaler, note),
		Scaler:          scaler,
		Reducer:         reducer,
		Assigner:        &artifact.Assigner{Centroids: km.Centroids},
		Mapping:         artifact.NewClusterMapping(mapping),
		Recommendations: recs,
	}
	if err := b.Validate(segment.FeatureNames); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	return b, nil
}

// rankBySpending returns the cluster ids ordered by decreasing mean spend.
// Clusters without members come last.
func rankBySpending(customers []segment.Features, labels []int, k int) []int {
	sums := make([]float64, k)
	counts := make([]int, k)
	for i, c := range customers {
		sums[labels[i]] += c.WineSpend + c.MeatSpend + c.FishSpend
		counts[labels[i]]++
	}

	means := make([]float64, k)
	ids := make([]int, k)
	for id := range ids {
		ids[id] = id
		means[id] = math.Inf(-1)
		if counts[id] > 0 {
			means[id] = sums[id] / float64(counts[id])
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return means[ids[i]] > means[ids[j]]
	})
	return ids
}
