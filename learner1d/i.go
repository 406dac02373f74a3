package learner1d

import "github.com/sgostarter/libadaptive/learner"

type Learner interface {
	learner.Learner[float64]

	Data() (xs, ys []float64)
	Bounds() (lo, hi float64)
}

type Interval struct {
	Lo float64
	Hi float64
}

// State is the complete mutable state of a 1-D learner. Snapshot returns a deep copy of it.
type State struct {
	Data    map[float64]float64
	Pending map[float64]float64

	Neighbors         []float64
	NeighborsCombined []float64

	Losses         map[Interval]float64
	LossesCombined map[Interval]float64

	BBox     [2][2]float64
	Scale    [2]float64
	OldScale [2]float64
}
