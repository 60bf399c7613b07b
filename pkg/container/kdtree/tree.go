/*
 * Copyright 2020 Dennis Kuhnert
 * Copyright 2020 Ivanov Nikita
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */
package kdtree

import (
	"fmt"
	"sort"
)

type Point interface {
	Dim(idx int) float64
	Dimensions() int
	Points() []float64
}

// DistanceFunc measures two coordinate vectors of equal length.
type DistanceFunc func(vec, vec1 []float64) (float64, error)

// Tree is a static kd-tree. It is read only after Build and can be searched
// from several goroutines at once.
type Tree struct {
	root   *node
	distFn DistanceFunc
}

func New(distFn DistanceFunc) *Tree {
	return &Tree{distFn: distFn}
}

// Build replaces the tree content with a balanced tree over points. The
// caller's slice is left in its original order.
func (t *Tree) Build(points ...Point) {
	own := make([]Point, len(points))
	copy(own, points)
	t.root = build(own, 0)
}

// RangeSearch returns the points inside the axis aligned box r, one Range
// per dimension.
func (t *Tree) RangeSearch(r []Range) []Point {
	if t.root == nil {
		return []Point{}
	}
	return t.root.rangeSearch(r, 0, nil)
}

// RadiusSearch returns every point whose distance to p is at most radius,
// p itself included when it is stored in the tree. The distance function
// must never be below the Chebyshev distance, which holds for every Lp norm.
func (t *Tree) RadiusSearch(p Point, radius float64) ([]Point, error) {
	if radius < 0 {
		return nil, fmt.Errorf("negative radius %v", radius)
	}
	box := make([]Range, p.Dimensions())
	for dim := range box {
		box[dim] = Range{Min: p.Dim(dim) - radius, Max: p.Dim(dim) + radius}
	}

	candidates := t.RangeSearch(box)
	found := candidates[:0]
	for _, c := range candidates {
		distance, err := t.distFn(p.Points(), c.Points())
		if err != nil {
			return nil, fmt.Errorf("compute radius search error: %w", err)
		}
		if distance <= radius {
			found = append(found, c)
		}
	}
	return found, nil
}

func build(points []Point, axis int) *node {
	if len(points) == 0 {
		return nil
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Dim(axis) < points[j].Dim(axis)
	})
	mid := len(points) / 2
	// equal keys must all land on the right, where rangeSearch looks for them
	for mid > 0 && points[mid-1].Dim(axis) == points[mid].Dim(axis) {
		mid--
	}

	next := (axis + 1) % points[mid].Dimensions()
	return &node{
		key:   points[mid],
		left:  build(points[:mid], next),
		right: build(points[mid+1:], next),
	}
}
