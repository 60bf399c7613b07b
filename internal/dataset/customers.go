package dataset

import (
	"fmt"
	"io"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
)

// ReadCustomers reads the training table and returns its rows in
// segment.FeatureNames order. Extra columns are ignored.
func ReadCustomers(r io.Reader, comma rune) ([]segment.Features, error) {
	t, err := ReadNumeric(r, comma)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		index[c] = i
	}
	cols := make([]int, len(segment.FeatureNames))
	for j, name := range segment.FeatureNames {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("read customers: numeric column %q not found", name)
		}
		cols[j] = i
	}

	out := make([]segment.Features, len(t.Rows))
	vec := make([]float64, len(cols))
	for r, row := range t.Rows {
		for j, i := range cols {
			vec[j] = row[i]
		}
		f, err := segment.FeaturesFromVector(vec)
		if err != nil {
			return nil, err
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("read customers: row %d: %w", r+1, err)
		}
		out[r] = f
	}
	return out, nil
}
