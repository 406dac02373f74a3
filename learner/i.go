package learner

type Function[X any] func(x X) float64

// Learner learns a function f: X -> float64 by choosing where to sample it next.
type Learner[X any] interface {
	AddPoint(x X, y Value) error
	RemoveUnfinished()

	// Loss returns +Inf while there is too little data to estimate it. With real == false
	// pending points take part through their interpolated values.
	Loss(real bool) float64

	// ChoosePoints returns the points expected to reduce the loss the most. With addData
	// the points are registered as pending, otherwise the learner is left untouched.
	ChoosePoints(n int, addData bool) (points []X, lossImprovements []float64, err error)

	Function() Function[X]

	Snapshot() Snapshot
	Restore(s Snapshot) error
}

type Stateful interface {
	Snapshot() Snapshot
	Restore(s Snapshot) error
}
