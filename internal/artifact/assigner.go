package artifact

import (
	"fmt"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/cluster"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/geom"
)

// Assigner maps a reduced vector to the id of its nearest centroid.
type Assigner struct {
	Centroids [][]float64
}

func (a *Assigner) Dims() int {
	if len(a.Centroids) == 0 {
		return 0
	}
	return len(a.Centroids[0])
}

func (a *Assigner) Predict(y []float64) (int, error) {
	if len(y) != a.Dims() {
		return 0, fmt.Errorf("assigner: got %d values, expected %d: %w", len(y), a.Dims(), geom.ErrDimNotEqual)
	}
	return cluster.Nearest(a.Centroids, y), nil
}

// ClusterIDs lists every id Predict can return.
func (a *Assigner) ClusterIDs() []int {
	ids := make([]int, len(a.Centroids))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

func (a *Assigner) validate() error {
	if len(a.Centroids) == 0 {
		return fmt.Errorf("no centroids")
	}
	for i, c := range a.Centroids {
		if len(c) != a.Dims() {
			return fmt.Errorf("centroid %d has %d values, expected %d", i, len(c), a.Dims())
		}
		if !geom.NewPoint(c).Finite() {
			return fmt.Errorf("centroid %d is not finite", i)
		}
	}
	return nil
}
