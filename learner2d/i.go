package learner2d

import (
	"github.com/sgostarter/libadaptive/learner"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

type Learner interface {
	learner.Learner[vec.Vec2]

	Points() []vec.Vec2
	Values() []float64
	PointsCombined() []vec.Vec2
	ValuesCombined() []float64
	Bounds() rect.Rect
}

type Candidate struct {
	Point           vec.Vec2
	LossImprovement float64
}

// State is the complete mutable state of a 2-D learner. Points and Values are backing arrays
// filled up to N; Index maps every stored point to its slot and Pending holds the slots still
// waiting for a value.
type State struct {
	Points []vec.Vec2
	Values []float64
	N      int

	Index   map[vec.Vec2]int
	Pending map[vec.Vec2]int

	Stack []Candidate
}
