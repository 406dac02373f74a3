package geometry

import (
	"gonum.org/v1/gonum/mat"
	"seehuhn.de/go/geom/vec"
)

// Gradients estimates the gradient at every vertex by a least-squares plane through the
// vertex and its neighbors in the triangulation. Vertices whose neighborhood does not
// determine a plane get a zero gradient.
func (t *Triangulation) Gradients(values []float64) []vec.Vec2 {
	neighbors := t.neighbors()
	gradients := make([]vec.Vec2, len(t.Points))

	for i, ns := range neighbors {
		if len(ns) < 2 {
			continue
		}

		a := mat.NewDense(len(ns), 2, nil)
		b := mat.NewVecDense(len(ns), nil)

		for row, j := range ns {
			d := t.Points[j].Sub(t.Points[i])
			a.Set(row, 0, d.X)
			a.Set(row, 1, d.Y)
			b.SetVec(row, values[j]-values[i])
		}

		var g mat.VecDense
		if err := g.SolveVec(a, b); err != nil {
			continue
		}

		gradients[i] = vec.Vec2{X: g.AtVec(0), Y: g.AtVec(1)}
	}

	return gradients
}

func (t *Triangulation) neighbors() [][]int {
	seen := make([]map[int]bool, len(t.Points))
	neighbors := make([][]int, len(t.Points))

	link := func(i, j int) {
		if seen[i] == nil {
			seen[i] = make(map[int]bool)
		}

		if seen[i][j] {
			return
		}

		seen[i][j] = true
		neighbors[i] = append(neighbors[i], j)
	}

	for _, tri := range t.Triangles {
		for k := 0; k < 3; k++ {
			link(tri[k], tri[(k+1)%3])
			link(tri[(k+1)%3], tri[k])
		}
	}

	return neighbors
}
