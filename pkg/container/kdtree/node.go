package kdtree

type Range struct {
	Min, Max float64
}

func (r Range) contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

type node struct {
	key         Point
	left, right *node
}

func (n *node) inside(box []Range) bool {
	for dim, r := range box {
		if !r.contains(n.key.Dim(dim)) {
			return false
		}
	}
	return true
}

// rangeSearch appends to out the points of the subtree inside box. Left
// subtrees hold keys strictly below n on axis, right subtrees the rest.
func (n *node) rangeSearch(box []Range, axis int, out []Point) []Point {
	if n.inside(box) {
		out = append(out, n.key)
	}

	v := n.key.Dim(axis)
	next := (axis + 1) % n.key.Dimensions()
	if n.left != nil && v > box[axis].Min {
		out = n.left.rangeSearch(box, next, out)
	}
	if n.right != nil && v <= box[axis].Max {
		out = n.right.rangeSearch(box, next, out)
	}
	return out
}
