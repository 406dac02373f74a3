package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"seehuhn.de/go/geom/vec"
)

// PointIndex answers nearest-point queries over a growing point set.
type PointIndex struct {
	tree *kdtree.Tree
}

func NewPointIndex(points []vec.Vec2) *PointIndex {
	ps := make(kdPoints, len(points))
	for idx, p := range points {
		ps[idx] = kdPoint{p}
	}

	return &PointIndex{
		tree: kdtree.New(ps, false),
	}
}

func (idx *PointIndex) Insert(p vec.Vec2) {
	idx.tree.Insert(kdPoint{p}, false)
}

func (idx *PointIndex) Len() int {
	return idx.tree.Count
}

// Nearest returns the Euclidean distance from p to the closest indexed point.
func (idx *PointIndex) Nearest(p vec.Vec2) float64 {
	if idx.tree.Count == 0 {
		return math.Inf(1)
	}

	_, d := idx.tree.Nearest(kdPoint{p})

	return math.Sqrt(d)
}

// Contains reports whether some indexed point lies strictly closer than eps to p.
func (idx *PointIndex) Contains(p vec.Vec2, eps float64) bool {
	return idx.Nearest(p) < eps
}

type kdPoint struct {
	vec.Vec2
}

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint) // nolint: forcetypeassert

	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	default:
		panic("illegal dimension")
	}
}

func (p kdPoint) Dims() int { return 2 }

func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint) // nolint: forcetypeassert
	dx := p.X - q.X
	dy := p.Y - q.Y

	return dx*dx + dy*dy
}

type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p kdPoints) Len() int                              { return len(p) }
func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p kdPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(kdPlane{kdPoints: p, Dim: d}, kdtree.MedianOfRandoms(kdPlane{kdPoints: p, Dim: d}, 100))
}

type kdPlane struct {
	kdPoints
	kdtree.Dim
}

func (p kdPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.kdPoints[i].X < p.kdPoints[j].X
	case 1:
		return p.kdPoints[i].Y < p.kdPoints[j].Y
	default:
		panic("illegal dimension")
	}
}

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	return kdPlane{kdPoints: p.kdPoints[start:end], Dim: p.Dim}
}

func (p kdPlane) Swap(i, j int) {
	p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i]
}
