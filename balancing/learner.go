package balancing

import (
	"fmt"
	"math"
	"reflect"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libadaptive/learner"
)

func NewLearner[X any](children []learner.Learner[X], logger l.Wrapper) (Learner[X], error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if len(children) == 0 {
		return nil, learner.ErrNoLearners
	}

	kind := reflect.TypeOf(learner.Unwrap(children[0]))

	for idx, child := range children[1:] {
		if t := reflect.TypeOf(learner.Unwrap(child)); t != kind {
			return nil, fmt.Errorf("%w: learner %d is %v, learner 0 is %v", learner.ErrMixedLearners, idx+1, t, kind)
		}
	}

	functions := make([]learner.Function[X], len(children))
	for idx, child := range children {
		functions[idx] = child.Function()
	}

	return &learnerImpl[X]{
		logger:    logger.WithFields(l.StringField(l.ClsKey, "learnerImpl")),
		children:  append([]learner.Learner[X]{}, children...),
		functions: functions,
	}, nil
}

type learnerImpl[X any] struct {
	logger l.Wrapper

	children  []learner.Learner[X]
	functions []learner.Function[X]
}

func (impl *learnerImpl[X]) Learners() []learner.Learner[X] {
	return append([]learner.Learner[X]{}, impl.children...)
}

func (impl *learnerImpl[X]) Function() learner.Function[Point[X]] {
	functions := impl.functions

	return func(p Point[X]) float64 {
		return functions[p.Index](p.X)
	}
}

func (impl *learnerImpl[X]) AddPoint(p Point[X], y learner.Value) error {
	if p.Index < 0 || p.Index >= len(impl.children) {
		return fmt.Errorf("%w: learner index %d of %d", learner.ErrInvalidPoint, p.Index, len(impl.children))
	}

	return impl.children[p.Index].AddPoint(p.X, y)
}

func (impl *learnerImpl[X]) Loss(real bool) float64 {
	loss := math.Inf(-1)

	for _, child := range impl.children {
		loss = math.Max(loss, child.Loss(real))
	}

	return loss
}

func (impl *learnerImpl[X]) RemoveUnfinished() {
	for _, child := range impl.children {
		child.RemoveUnfinished()
	}
}

func (impl *learnerImpl[X]) ChoosePoints(n int, addData bool) (points []Point[X], lossImprovements []float64, err error) {
	if n <= 0 {
		return
	}

	if addData {
		return impl.chooseAndAdd(n)
	}

	err = learner.Restore(func() (err error) {
		points, lossImprovements, err = impl.chooseAndAdd(n)

		return
	}, impl.stateful()...)

	return
}

func (impl *learnerImpl[X]) Snapshot() learner.Snapshot {
	st := State{
		Children: make([]learner.Snapshot, len(impl.children)),
	}

	for idx, child := range impl.children {
		st.Children[idx] = child.Snapshot()
	}

	return st
}

func (impl *learnerImpl[X]) Restore(s learner.Snapshot) error {
	st, ok := s.(State)
	if !ok || len(st.Children) != len(impl.children) {
		return fmt.Errorf("%w: %T", learner.ErrSnapshotMismatch, s)
	}

	for idx, child := range impl.children {
		if err := child.Restore(st.Children[idx]); err != nil {
			return fmt.Errorf("learner %d: %w", idx, err)
		}
	}

	return nil
}

//
//
//

// chooseAndAdd picks points one at a time: every child proposes its best next point without
// committing it, the best proposal is committed as pending to its owner, and the next round sees
// the updated state.
func (impl *learnerImpl[X]) chooseAndAdd(n int) (points []Point[X], lossImprovements []float64, err error) {
	for i := 0; i < n; i++ {
		var (
			best            = -1
			bestX           X
			bestImprovement float64
		)

		for idx, child := range impl.children {
			xs, improvements, e := child.ChoosePoints(1, false)
			if e != nil {
				err = fmt.Errorf("learner %d: %w", idx, e)

				return
			}

			if len(xs) == 0 {
				continue
			}

			if best < 0 || improvements[0] > bestImprovement {
				best, bestX, bestImprovement = idx, xs[0], improvements[0]
			}
		}

		if best < 0 {
			impl.logger.WithFields(l.IntField("requested", n), l.IntField("chosen", len(points))).
				Debug("no learner proposed a point")

			break
		}

		impl.logger.WithFields(l.IntField("index", best), l.StringField("improvement", fmt.Sprint(bestImprovement))).
			Debug("chosen")

		if err = impl.children[best].AddPoint(bestX, learner.Pending); err != nil {
			return
		}

		points = append(points, Point[X]{Index: best, X: bestX})
		lossImprovements = append(lossImprovements, bestImprovement)
	}

	return
}

func (impl *learnerImpl[X]) stateful() []learner.Stateful {
	stateful := make([]learner.Stateful, len(impl.children))
	for idx, child := range impl.children {
		stateful[idx] = child
	}

	return stateful
}
