package geometry

import (
	"fmt"
	"math"

	"github.com/fogleman/delaunay"
	"seehuhn.de/go/geom/vec"
)

// barycentricTol admits points that sit on a shared edge up to rounding.
const barycentricTol = 1e-12

type Triangle [3]int

// Triangulation is a Delaunay triangulation; Triangles index into Points.
type Triangulation struct {
	Points    []vec.Vec2
	Triangles []Triangle
}

func Triangulate(points []vec.Vec2) (*Triangulation, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("triangulate %d points: %w", len(points), ErrDegenerate)
	}

	ps := make([]delaunay.Point, len(points))
	for idx, p := range points {
		ps[idx] = delaunay.Point{X: p.X, Y: p.Y}
	}

	dt, err := delaunay.Triangulate(ps)
	if err != nil {
		return nil, fmt.Errorf("triangulate %d points: %w: %v", len(points), ErrDegenerate, err)
	}

	t := &Triangulation{
		Points:    append([]vec.Vec2{}, points...),
		Triangles: make([]Triangle, 0, len(dt.Triangles)/3),
	}

	for idx := 0; idx+2 < len(dt.Triangles); idx += 3 {
		t.Triangles = append(t.Triangles, Triangle{dt.Triangles[idx], dt.Triangles[idx+1], dt.Triangles[idx+2]})
	}

	if len(t.Triangles) == 0 {
		return nil, fmt.Errorf("triangulate %d points: %w", len(points), ErrDegenerate)
	}

	return t, nil
}

func (t *Triangulation) Vertices(i int) (a, b, c vec.Vec2) {
	tri := t.Triangles[i]

	return t.Points[tri[0]], t.Points[tri[1]], t.Points[tri[2]]
}

func (t *Triangulation) Area(i int) float64 {
	a, b, c := t.Vertices(i)

	return math.Abs(cross(b.Sub(a), c.Sub(a))) / 2
}

func (t *Triangulation) Centroid(i int) vec.Vec2 {
	a, b, c := t.Vertices(i)

	return a.Add(b).Add(c).Mul(1.0 / 3)
}

// Interpolate evaluates the piecewise linear interpolant of values at p. Outside the convex
// hull it falls back to the value of the nearest vertex and reports false.
func (t *Triangulation) Interpolate(values []float64, p vec.Vec2) (float64, bool) {
	for i, tri := range t.Triangles {
		l0, l1, l2, ok := t.barycentric(i, p)
		if !ok {
			continue
		}

		return l0*values[tri[0]] + l1*values[tri[1]] + l2*values[tri[2]], true
	}

	nearest, best := 0, math.Inf(1)

	for idx, q := range t.Points {
		if d := q.Sub(p).Length(); d < best {
			nearest, best = idx, d
		}
	}

	return values[nearest], false
}

func (t *Triangulation) barycentric(i int, p vec.Vec2) (l0, l1, l2 float64, ok bool) {
	a, b, c := t.Vertices(i)

	det := cross(b.Sub(a), c.Sub(a))
	if det == 0 {
		return
	}

	l1 = cross(p.Sub(a), c.Sub(a)) / det
	l2 = cross(b.Sub(a), p.Sub(a)) / det
	l0 = 1 - l1 - l2

	ok = l0 >= -barycentricTol && l1 >= -barycentricTol && l2 >= -barycentricTol

	return
}

func cross(u, v vec.Vec2) float64 {
	return u.X*v.Y - u.Y*v.X
}
