package cluster

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/geom"
)

type merge struct {
	a, b   int
	height float64
}

// FitWard builds the Ward linkage hierarchy of points with the
// nearest-neighbour chain algorithm and cuts it at k clusters.
func FitWard(ctx context.Context, points [][]float64, k int) ([]int, error) {
	n := len(points)
	if k < 1 {
		return nil, fmt.Errorf("agglomerative: clusters must be positive, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("agglomerative: n_samples=%d, n_clusters=%d: %w", n, k, ErrTooFewPoints)
	}

	merges, err := wardChain(ctx, points)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(merges, func(i, j int) bool {
		return merges[i].height < merges[j].height
	})

	sets := newDisjointSet(n)
	for _, m := range merges[:n-k] {
		sets.union(m.a, m.b)
	}

	labels := make([]int, n)
	ids := make(map[int]int, k)
	for i := range labels {
		root := sets.find(i)
		id, ok := ids[root]
		if !ok {
			id = len(ids)
			ids[root] = id
		}
		labels[i] = id
	}
	return labels, nil
}

// wardChain returns the n-1 merges of the Ward hierarchy. Distances are
// kept squared and updated with the Lance-Williams formula. Slot i always
// holds the cluster containing point i.
func wardChain(ctx context.Context, points [][]float64) ([]merge, error) {
	n := len(points)
	dist := newCondensed(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist.set(i, j, geom.SquaredEuclidean(points[i], points[j]))
		}
	}

	active := make([]bool, n)
	size := make([]float64, n)
	for i := range active {
		active[i] = true
		size[i] = 1
	}

	merges := make([]merge, 0, n)
	chain := make([]int, 0, n)
	for len(merges) < n-1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if len(chain) == 0 {
			for i := range active {
				if active[i] {
					chain = append(chain, i)
					break
				}
			}
		}

		for {
			a := chain[len(chain)-1]
			b, best := -1, math.Inf(1)
			if len(chain) > 1 {
				b = chain[len(chain)-2]
				best = dist.get(a, b)
			}
			for c := range active {
				if !active[c] || c == a {
					continue
				}
				if d := dist.get(a, c); d < best {
					b, best = c, d
				}
			}

			if len(chain) > 1 && b == chain[len(chain)-2] {
				chain = chain[:len(chain)-2]
				merges = append(merges, merge{a: a, b: b, height: best})
				wardUpdate(dist, active, size, a, b, best)
				break
			}
			chain = append(chain, b)
		}
	}
	return merges, nil
}

// wardUpdate folds cluster b into slot a.
func wardUpdate(dist *condensed, active []bool, size []float64, a, b int, dab float64) {
	na, nb := size[a], size[b]
	active[b] = false
	for c := range active {
		if !active[c] || c == a {
			continue
		}
		nc := size[c]
		d := ((na+nc)*dist.get(a, c) + (nb+nc)*dist.get(b, c) - nc*dab) / (na + nb + nc)
		dist.set(a, c, d)
	}
	size[a] = na + nb
}

// condensed is the upper triangle of a symmetric distance matrix.
type condensed struct {
	n    int
	data []float64
}

func newCondensed(n int) *condensed {
	return &condensed{n: n, data: make([]float64, n*(n-1)/2)}
}

func (c *condensed) index(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return c.n*i - i*(i+1)/2 + j - i - 1
}

func (c *condensed) get(i, j int) float64 {
	return c.data[c.index(i, j)]
}

func (c *condensed) set(i, j int, v float64) {
	c.data[c.index(i, j)] = v
}

type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &disjointSet{parent: parent}
}

func (s *disjointSet) find(i int) int {
	for s.parent[i] != i {
		s.parent[i] = s.parent[s.parent[i]]
		i = s.parent[i]
	}
	return i
}

func (s *disjointSet) union(a, b int) {
	ra, rb := s.find(a), s.find(b)
	if ra != rb {
		s.parent[rb] = ra
	}
}
