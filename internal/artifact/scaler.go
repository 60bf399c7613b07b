// Package artifact holds the frozen transforms and lookup tables the
// inference pipeline is built from, and their bbolt store.
package artifact

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/geom"
)

const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
)

// Scaler is the per-feature affine transform x' = (x - Offset) / Scale.
type Scaler struct {
	Kind   string
	Offset []float64
	Scale  []float64
}

// FitScaler fits a standard (mean, population deviation) or min-max scaler
// over rows. Constant features get a scale of 1.
func FitScaler(kind string, rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("fit scaler: %w", geom.ErrEmpty)
	}
	d := len(rows[0])
	s := &Scaler{Kind: kind, Offset: make([]float64, d), Scale: make([]float64, d)}

	col := make([]float64, len(rows))
	for j := 0; j < d; j++ {
		for i, r := range rows {
			if len(r) != d {
				return nil, fmt.Errorf("fit scaler: row %d: %w", i, geom.ErrDimNotEqual)
			}
			col[i] = r[j]
		}

		switch kind {
		case ScalerStandard:
			mean, std := stat.PopMeanStdDev(col, nil)
			s.Offset[j], s.Scale[j] = mean, std
		case ScalerMinMax:
			lo, hi := floats.Min(col), floats.Max(col)
			s.Offset[j], s.Scale[j] = lo, hi-lo
		default:
			return nil, fmt.Errorf("fit scaler: unknown kind %q", kind)
		}
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return s, nil
}

func (s *Scaler) Dims() int {
	return len(s.Offset)
}

func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != s.Dims() {
		return nil, fmt.Errorf("scaler: got %d features, expected %d: %w", len(x), s.Dims(), geom.ErrDimNotEqual)
	}
	out := make([]float64, len(x))
	floats.SubTo(out, x, s.Offset)
	floats.Div(out, s.Scale)
	return out, nil
}

func (s *Scaler) InverseTransform(x []float64) ([]float64, error) {
	if len(x) != s.Dims() {
		return nil, fmt.Errorf("scaler: got %d features, expected %d: %w", len(x), s.Dims(), geom.ErrDimNotEqual)
	}
	out := make([]float64, len(x))
	floats.MulTo(out, x, s.Scale)
	floats.Add(out, s.Offset)
	return out, nil
}

func (s *Scaler) validate() error {
	if s.Kind != ScalerStandard && s.Kind != ScalerMinMax {
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	if len(s.Offset) != len(s.Scale) {
		return fmt.Errorf("%d offsets for %d scales", len(s.Offset), len(s.Scale))
	}
	for j := range s.Scale {
		if s.Scale[j] == 0 || math.IsNaN(s.Scale[j]) || math.IsInf(s.Scale[j], 0) {
			return fmt.Errorf("feature %d has scale %v", j, s.Scale[j])
		}
		if math.IsNaN(s.Offset[j]) || math.IsInf(s.Offset[j], 0) {
			return fmt.Errorf("feature %d has offset %v", j, s.Offset[j])
		}
	}
	return nil
}
