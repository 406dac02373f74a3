package learner

import (
	"fmt"
	"strconv"
)

func AddData[X any](l Learner[X], xs []X, ys []Value) error {
	if len(xs) != len(ys) {
		return ErrLengthMismatch
	}

	for idx, x := range xs {
		if err := l.AddPoint(x, ys[idx]); err != nil {
			return err
		}
	}

	return nil
}

func AddPending[X any](l Learner[X], xs []X) error {
	for _, x := range xs {
		if err := l.AddPoint(x, Pending); err != nil {
			return err
		}
	}

	return nil
}

// Erase hides the point type of l, so learners over different domains can share a slice.
func Erase[X any](l Learner[X]) Learner[any] {
	return &erasedLearner[X]{
		l: l,
	}
}

// Unwrap returns the learner hidden by Erase, or l itself.
func Unwrap(l any) any {
	if e, ok := l.(interface{ Unwrap() any }); ok {
		return e.Unwrap()
	}

	return l
}

type erasedLearner[X any] struct {
	l Learner[X]
}

func (impl *erasedLearner[X]) Unwrap() any {
	return impl.l
}

func (impl *erasedLearner[X]) AddPoint(x any, y Value) error {
	xv, ok := x.(X)
	if !ok {
		return fmt.Errorf("%w: %T", ErrInvalidPoint, x)
	}

	return impl.l.AddPoint(xv, y)
}

func (impl *erasedLearner[X]) RemoveUnfinished() {
	impl.l.RemoveUnfinished()
}

func (impl *erasedLearner[X]) Loss(real bool) float64 {
	return impl.l.Loss(real)
}

func (impl *erasedLearner[X]) ChoosePoints(n int, addData bool) (points []any, lossImprovements []float64, err error) {
	xs, lossImprovements, err := impl.l.ChoosePoints(n, addData)
	if err != nil {
		return
	}

	points = make([]any, 0, len(xs))
	for _, x := range xs {
		points = append(points, x)
	}

	return
}

func (impl *erasedLearner[X]) Function() Function[any] {
	f := impl.l.Function()

	return func(x any) float64 {
		return f(x.(X)) // nolint: forcetypeassert
	}
}

func (impl *erasedLearner[X]) Snapshot() Snapshot {
	return impl.l.Snapshot()
}

func (impl *erasedLearner[X]) Restore(s Snapshot) error {
	return impl.l.Restore(s)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
