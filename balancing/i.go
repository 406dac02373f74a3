package balancing

import "github.com/sgostarter/libadaptive/learner"

// Point addresses x in the domain of the child learner at Index.
type Point[X any] struct {
	Index int
	X     X
}

type Learner[X any] interface {
	learner.Learner[Point[X]]

	Learners() []learner.Learner[X]
}

type State struct {
	Children []learner.Snapshot
}
