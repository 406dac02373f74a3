package learner2d

import (
	"math"

	"github.com/sgostarter/libadaptive/geometry"
)

// triangleLosses compares, for every triangle, the values at its corners with the values
// extrapolated from each corner along that corner's gradient. The summed deviation is
// normalized by the value range and weighted by the square root of the triangle area.
func triangleLosses(tri *geometry.Triangulation, values []float64) []float64 {
	gradients := tri.Gradients(values)

	vMin, vMax := math.Inf(1), math.Inf(-1)

	for _, t := range tri.Triangles {
		for _, idx := range t {
			vMin = math.Min(vMin, values[idx])
			vMax = math.Max(vMax, values[idx])
		}
	}

	vScale := vMax - vMin
	losses := make([]float64, len(tri.Triangles))

	for i, t := range tri.Triangles {
		dev := 0.0

		for _, j := range t {
			pj, gj, vj := tri.Points[j], gradients[j], values[j]

			maxDev := 0.0

			for _, k := range t {
				d := tri.Points[k].Sub(pj)
				estimate := vj + d.X*gj.X + d.Y*gj.Y
				maxDev = math.Max(maxDev, math.Abs(estimate-values[k]))
			}

			dev += maxDev
		}

		if vScale != 0 {
			dev /= vScale
		}

		losses[i] = dev * math.Sqrt(tri.Area(i))
	}

	return losses
}

func argmax(values []float64) int {
	best := 0

	for idx, v := range values {
		if v > values[best] {
			best = idx
		}
	}

	return best
}
