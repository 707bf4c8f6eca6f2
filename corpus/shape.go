// Package corpus aggregates built formula trees into shape statistics:
// trees are grouped by the root's simple form, counted, and the shortest
// original formula exhibiting each shape is kept as its display example.
package corpus

import (
	"sort"

	"github.com/sheetlab/formulatree/ftree"
)

// Shape is one structural group: every formula whose root has the same
// simple form lands here.
type Shape struct {
	Simple  string
	Count   int
	Example string
}

// ShapeIndex groups trees by root operator identity.
type ShapeIndex struct {
	shapes map[string]*Shape
}

// NewShapeIndex returns an empty index.
func NewShapeIndex() *ShapeIndex {
	return &ShapeIndex{shapes: map[string]*Shape{}}
}

// Add files a built tree under its root's simple form. The formula text is
// kept as the shape's example when it is shorter than the current one,
// using the length propagated through the tree rather than recomputing it.
func (ix *ShapeIndex) Add(root *ftree.Node, formula string) {
	s, ok := ix.shapes[root.Simple()]
	if !ok {
		s = &Shape{Simple: root.Simple(), Example: formula}
		ix.shapes[root.Simple()] = s
	}
	s.Count++
	if root.OrigLen() < len(s.Example) {
		s.Example = formula
	}
}

// Len returns the number of distinct shapes seen.
func (ix *ShapeIndex) Len() int {
	return len(ix.shapes)
}

// Get returns the shape for a simple form, or nil.
func (ix *ShapeIndex) Get(simple string) *Shape {
	return ix.shapes[simple]
}

// Top returns up to n shapes by descending frequency, ties broken by
// simple form for stable output. n <= 0 returns all.
func (ix *ShapeIndex) Top(n int) []*Shape {
	out := make([]*Shape, 0, len(ix.shapes))
	for _, s := range ix.shapes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Simple < out[j].Simple
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
