package geom

import (
	"math"
	"testing"
)

func TestPoint_Dimensions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		expected int
	}{
		{name: "positive", p: NewPoint([]float64{1, 2, 3, 4, 5}), expected: 5},
		{name: "empty", p: NewPoint(nil), expected: 0},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			cmp := test.p.Dimensions()
			if cmp != test.expected {
				t.Errorf("the comparison is incorrect got: %v, expected: %v", cmp, test.expected)
			}
		})
	}
}

func TestPoint_Copy(t *testing.T) {
	p := Point{1, 2}
	c := p.Copy()
	c[0] = 5
	if p[0] != 1 {
		t.Errorf("copy must not share memory with the source point")
	}
}

func TestPoint_Finite(t *testing.T) {
	tests := []struct {
		name     string
		p        Point
		expected bool
	}{
		{name: "finite", p: Point{1, -2, 0}, expected: true},
		{name: "nan", p: Point{1, math.NaN()}, expected: false},
		{name: "inf", p: Point{math.Inf(-1)}, expected: false},
	}
	for _, test := range tests {
		if got := test.p.Finite(); got != test.expected {
			t.Errorf("%s: finite got: %v, expected: %v", test.name, got, test.expected)
		}
	}
}
