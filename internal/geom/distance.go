package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrDimNotEqual = errors.New("vectors dimension is not equal")
	ErrEmpty       = errors.New("no points given")
)

// Metric names.
const (
	MetricEuclidean = "euclidean"
	MetricChebyshev = "chebyshev"
	MetricManhattan = "manhattan"
)

// DistanceFuncFor resolves a metric name. The empty name is euclidean.
func DistanceFuncFor(metric string) (func(vec, vec1 []float64) (float64, error), error) {
	switch metric {
	case MetricEuclidean, "":
		return EuclideanDistance, nil
	case MetricChebyshev:
		return ChebyshevDistance, nil
	case MetricManhattan:
		return ManhattanDistance, nil
	default:
		return nil, fmt.Errorf("unknown distance function: %s", metric)
	}
}

func EuclideanDistance(vec, vec1 []float64) (float64, error) {
	if len(vec) != len(vec1) {
		return 0.0, ErrDimNotEqual
	}
	return floats.Distance(vec, vec1, 2), nil
}

func ChebyshevDistance(vec, vec1 []float64) (float64, error) {
	if len(vec) != len(vec1) {
		return 0.0, ErrDimNotEqual
	}
	return floats.Distance(vec, vec1, math.Inf(1)), nil
}

func ManhattanDistance(vec, vec1 []float64) (float64, error) {
	if len(vec) != len(vec1) {
		return 0.0, ErrDimNotEqual
	}
	return floats.Distance(vec, vec1, 1), nil
}

// SquaredEuclidean skips the square root; callers guarantee equal lengths.
func SquaredEuclidean(vec, vec1 []float64) float64 {
	var s float64
	for i := range vec {
		d := vec[i] - vec1[i]
		s += d * d
	}
	return s
}
