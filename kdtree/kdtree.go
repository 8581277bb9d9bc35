// Package kdtree implements a median-split 3-D k-d tree over a palette in
// CIE LAB space, giving O(log n) nearest-neighbor palette lookup during
// JABCode module classification instead of a linear ΔE76 scan.
package kdtree

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/jabcode/jabcode/jabcolor"
)

type node struct {
	color       jabcolor.LAB
	index       int
	left, right *node
}

// Tree is a k-d tree over a fixed palette of LAB colors, built once per
// decoded symbol per palette slot.
type Tree struct {
	root *node
	size int
}

type colorPoint struct {
	lab   jabcolor.LAB
	index int
}

func axisValue(c jabcolor.LAB, axis int) float64 {
	switch axis % 3 {
	case 0:
		return c.L
	case 1:
		return c.A
	default:
		return c.B
	}
}

// Build constructs a k-d tree over palette, splitting on L, a, b cyclically
// by depth. Equal-key ties are resolved by a stable sort on the current
// axis, so Nearest agrees with a linear ΔE76 scan on tie-break order.
func Build(palette []jabcolor.LAB) *Tree {
	if len(palette) == 0 {
		return &Tree{}
	}
	points := make([]colorPoint, len(palette))
	for i, c := range palette {
		points[i] = colorPoint{lab: c, index: i}
	}
	return &Tree{
		root: buildRecursive(points, 0),
		size: len(palette),
	}
}

func buildRecursive(points []colorPoint, depth int) *node {
	if len(points) == 0 {
		return nil
	}
	axis := depth % 3
	slices.SortStableFunc(points, func(a, b colorPoint) int {
		av, bv := axisValue(a.lab, axis), axisValue(b.lab, axis)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	})

	mid := len(points) / 2
	n := &node{color: points[mid].lab, index: points[mid].index}
	n.left = buildRecursive(points[:mid], depth+1)
	n.right = buildRecursive(points[mid+1:], depth+1)
	return n
}

// Nearest returns the palette index i minimizing ΔE76(query, palette[i]),
// with ties broken toward the smaller index.
func (t *Tree) Nearest(query jabcolor.LAB) int {
	if t == nil || t.root == nil {
		return 0
	}
	bestIndex := 0
	bestDist := math.Inf(1)
	searchRecursive(t.root, query, 0, &bestIndex, &bestDist)
	return bestIndex
}

func searchRecursive(n *node, query jabcolor.LAB, depth int, bestIndex *int, bestDist *float64) {
	if n == nil {
		return
	}

	dist := jabcolor.DeltaE76(query, n.color)
	if dist < *bestDist || (dist == *bestDist && n.index < *bestIndex) {
		*bestDist = dist
		*bestIndex = n.index
	}

	axis := depth % 3
	queryVal := axisValue(query, axis)
	nodeVal := axisValue(n.color, axis)
	axisDist := queryVal - nodeVal

	near, far := n.left, n.right
	if axisDist >= 0 {
		near, far = n.right, n.left
	}

	searchRecursive(near, query, depth+1, bestIndex, bestDist)
	if math.Abs(axisDist) <= *bestDist {
		searchRecursive(far, query, depth+1, bestIndex, bestDist)
	}
}

// Len reports the number of colors indexed by the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}
