package artifact

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/geom"
)

var ErrDecomposition = errors.New("principal component decomposition failed")

// Reducer is a PCA projection y = W (x - Mean). Components holds W row-major,
// Rank rows of Inputs values each.
type Reducer struct {
	Inputs     int32
	Rank       int32
	Mean       []float64
	Components []float64
	// Variance explained by each kept component.
	Variance []float64
}

// ExplainedVariance returns a copy of the variance of each kept component,
// largest first.
func (r *Reducer) ExplainedVariance() []float64 {
	out := make([]float64, len(r.Variance))
	copy(out, r.Variance)
	return out
}

// FitReducer keeps the first rank principal components of rows.
func FitReducer(rows [][]float64, rank int) (*Reducer, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("fit reducer: need at least 2 rows, got %d", len(rows))
	}
	d := len(rows[0])
	if rank < 1 || rank > d {
		return nil, fmt.Errorf("fit reducer: rank %d out of [1, %d]", rank, d)
	}

	data := mat.NewDense(len(rows), d, nil)
	for i, r := range rows {
		if len(r) != d {
			return nil, fmt.Errorf("fit reducer: row %d: %w", i, geom.ErrDimNotEqual)
		}
		data.SetRow(i, r)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, fmt.Errorf("fit reducer: %w", ErrDecomposition)
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)
	if _, c := vecs.Dims(); c < rank {
		return nil, fmt.Errorf("fit reducer: only %d components for rank %d: %w", c, rank, ErrDecomposition)
	}

	red := &Reducer{
		Inputs:     int32(d),
		Rank:       int32(rank),
		Mean:       make([]float64, d),
		Components: make([]float64, 0, rank*d),
		Variance:   vars[:rank],
	}
	for j := 0; j < d; j++ {
		red.Mean[j] = stat.Mean(mat.Col(nil, j, data), nil)
	}
	for k := 0; k < rank; k++ {
		red.Components = append(red.Components, mat.Col(nil, k, &vecs)...)
	}
	return red, nil
}

func (r *Reducer) Transform(x []float64) ([]float64, error) {
	d := int(r.Inputs)
	if len(x) != d {
		return nil, fmt.Errorf("reducer: got %d values, expected %d: %w", len(x), d, geom.ErrDimNotEqual)
	}
	centered := mat.NewVecDense(d, nil)
	centered.SubVec(mat.NewVecDense(d, x), mat.NewVecDense(d, r.Mean))

	var y mat.VecDense
	y.MulVec(mat.NewDense(int(r.Rank), d, r.Components), centered)
	return y.RawVector().Data, nil
}

// TransformAll projects every row.
func (r *Reducer) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		y, err := r.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = y
	}
	return out, nil
}

func (r *Reducer) validate() error {
	if r.Inputs < 1 || r.Rank < 1 || r.Rank > r.Inputs {
		return fmt.Errorf("rank %d over %d inputs", r.Rank, r.Inputs)
	}
	if len(r.Mean) != int(r.Inputs) {
		return fmt.Errorf("mean has %d values, expected %d", len(r.Mean), r.Inputs)
	}
	if len(r.Components) != int(r.Rank*r.Inputs) {
		return fmt.Errorf("components have %d values, expected %d", len(r.Components), r.Rank*r.Inputs)
	}
	return nil
}
