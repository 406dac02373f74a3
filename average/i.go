package average

import "github.com/sgostarter/libadaptive/learner"

type Learner interface {
	learner.Learner[int]

	Mean() float64
	Std() float64
	N() int
}

type State struct {
	Data    map[int]float64
	Pending map[int]bool

	N          int
	NRequested int
	Sum        float64
	SumSq      float64
}
