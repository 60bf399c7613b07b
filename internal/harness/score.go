package harness

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/cluster"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/geom"
)

var ErrLabelCount = errors.New("number of labels must be in [2, n_samples-1]")

// Score is an internal validation score or the explicit absence of one.
// It encodes as a JSON number, or null when not applicable.
type Score struct {
	Value      float64
	Applicable bool
}

func NotApplicable() Score {
	return Score{}
}

func Applicable(v float64) Score {
	return Score{Value: v, Applicable: true}
}

func (s Score) String() string {
	if !s.Applicable {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", s.Value)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Applicable {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = NotApplicable()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode score: %w", err)
	}
	*s = Applicable(v)
	return nil
}

// Evaluate scores a labelling. The silhouette is computed only when there are
// at least two distinct labels and, if noise is present, at least two
// labels besides it. Noise is then scored as a cluster of its own.
func Evaluate(points [][]float64, labels []int) Score {
	distinct := cluster.Distinct(labels)
	hasNoise := len(distinct) > 0 && distinct[0] == cluster.Noise
	if !(len(distinct) > 1 && (!hasNoise || len(distinct) > 2)) {
		return NotApplicable()
	}

	v, err := Silhouette(points, labels)
	if err != nil || math.IsNaN(v) {
		return NotApplicable()
	}
	return Applicable(v)
}

// Silhouette returns the mean silhouette coefficient over all points with
// Euclidean distance. A point alone in its cluster scores 0.
func Silhouette(points [][]float64, labels []int) (float64, error) {
	n := len(points)
	if n != len(labels) {
		return 0, fmt.Errorf("silhouette: %d points, %d labels", n, len(labels))
	}

	distinct := cluster.Distinct(labels)
	if len(distinct) < 2 || len(distinct) > n-1 {
		return 0, fmt.Errorf("silhouette: %d labels for %d points: %w", len(distinct), n, ErrLabelCount)
	}

	slot := make(map[int]int, len(distinct))
	for i, l := range distinct {
		slot[l] = i
	}
	sizes := make([]float64, len(distinct))
	for _, l := range labels {
		sizes[slot[l]]++
	}

	var total float64
	sums := make([]float64, len(distinct))
	for i := range points {
		for j := range sums {
			sums[j] = 0
		}
		for j := range points {
			if i == j {
				continue
			}
			d, err := geom.EuclideanDistance(points[i], points[j])
			if err != nil {
				return 0, fmt.Errorf("silhouette: %w", err)
			}
			sums[slot[labels[j]]] += d
		}

		own := slot[labels[i]]
		if sizes[own] == 1 {
			continue
		}
		a := sums[own] / (sizes[own] - 1)
		b := math.Inf(1)
		for j := range sums {
			if j == own {
				continue
			}
			if m := sums[j] / sizes[j]; m < b {
				b = m
			}
		}
		if s := math.Max(a, b); s > 0 {
			total += (b - a) / s
		}
	}
	return total / float64(n), nil
}
