package bench

import (
	"math"
	"math/rand/v2"

	"github.com/sgostarter/libadaptive/learner"
	"seehuhn.de/go/geom/vec"
)

// F1D is a line with a narrow Lorentzian peak at offset.
func F1D(offset float64) learner.Function[float64] {
	const a = 0.01

	return func(x float64) float64 {
		return x + a*a/(a*a+(x-offset)*(x-offset))
	}
}

// F2D is a tilted plane with a sharp ring of radius 0.75.
func F2D(p vec.Vec2) float64 {
	const a = 0.2

	r := p.X*p.X + p.Y*p.Y - 0.75*0.75

	return p.X + math.Exp(-r*r/math.Pow(a, 4))
}

// Noise returns an independent standard normal draw for every index.
func Noise(seed uint64) learner.Function[int] {
	return func(idx int) float64 {
		return rand.New(rand.NewPCG(seed, uint64(idx))).NormFloat64() // nolint: gosec
	}
}
