package dataset

import (
	"github.com/valyala/fastrand"
)

// Synthetic returns n points of dim uniform coordinates in [0, 1).
func Synthetic(n, dim int, seed uint32) [][]float64 {
	var rng fastrand.RNG
	rng.Seed(seed)

	points := make([][]float64, n)
	for i := range points {
		p := make([]float64, dim)
		for j := range p {
			p[j] = float64(rng.Uint32()) / (1 << 32)
		}
		points[i] = p
	}
	return points
}
