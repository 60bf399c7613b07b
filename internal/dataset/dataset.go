// Package dataset reads customer tables and prepares the point sets the
// comparison harness runs on.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/artifact"
)

var ErrNoNumericColumns = errors.New("no numeric columns")

// Table is a numeric view of a CSV file.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// ReadNumeric keeps every column in which each cell parses as a number.
// comma 0 selects ','.
func ReadNumeric(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	if comma != 0 {
		cr.Comma = comma
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	numeric := make([]bool, len(header))
	for i := range numeric {
		numeric[i] = true
	}

	var records [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(records)+1, err)
		}
		for i, cell := range record {
			if !numeric[i] {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
				numeric[i] = false
			}
		}
		records = append(records, record)
	}

	t := &Table{}
	var keep []int
	for i, ok := range numeric {
		if ok {
			keep = append(keep, i)
			t.Columns = append(t.Columns, strings.TrimSpace(header[i]))
		}
	}
	if len(keep) == 0 || len(records) == 0 {
		return nil, ErrNoNumericColumns
	}

	t.Rows = make([][]float64, len(records))
	for r, record := range records {
		row := make([]float64, len(keep))
		for j, i := range keep {
			row[j], _ = strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		}
		t.Rows[r] = row
	}
	return t, nil
}

// Project rescales the rows to [0, 1] per column and keeps the first
// components principal components.
func Project(rows [][]float64, components int) ([][]float64, error) {
	scaler, err := artifact.FitScaler(artifact.ScalerMinMax, rows)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	scaled := make([][]float64, len(rows))
	for i, row := range rows {
		if scaled[i], err = scaler.Transform(row); err != nil {
			return nil, fmt.Errorf("project: row %d: %w", i, err)
		}
	}

	reducer, err := artifact.FitReducer(scaled, components)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return reducer.TransformAll(scaled)
}

type LoadConfig struct {
	Path           string
	Comma          rune
	Components     int
	AllowSynthetic bool
	SyntheticSize  int
	SyntheticSeed  uint32
}

// Load reads the CSV at cfg.Path and projects it. When that fails and
// synthetic data is allowed, uniform random points are returned instead
// and loaded is false.
func Load(cfg LoadConfig) (points [][]float64, loaded bool, err error) {
	points, err = loadFile(cfg)
	if err == nil {
		return points, true, nil
	}
	if !cfg.AllowSynthetic {
		return nil, false, err
	}
	return Synthetic(cfg.SyntheticSize, cfg.Components, cfg.SyntheticSeed), false, nil
}

func loadFile(cfg LoadConfig) ([][]float64, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	t, err := ReadNumeric(f, cfg.Comma)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", cfg.Path, err)
	}
	return Project(t.Rows, cfg.Components)
}
