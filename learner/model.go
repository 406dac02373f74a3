package learner

import "math"

// Value is a sampled function value or the marker of a point whose value is still unknown.
type Value struct {
	y     float64
	known bool
}

var Pending = Value{}

func Real(y float64) Value {
	return Value{
		y:     y,
		known: true,
	}
}

func (v Value) IsPending() bool {
	return !v.known
}

func (v Value) Y() float64 {
	if !v.known {
		return math.NaN()
	}

	return v.y
}

func (v Value) String() string {
	if !v.known {
		return "pending"
	}

	return formatFloat(v.y)
}

// Snapshot is a deep copy of a learner's state, only meaningful to the learner that made it.
type Snapshot interface{}
