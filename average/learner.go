package average

import (
	"fmt"
	"maps"
	"math"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libadaptive/learner"
)

func New(f learner.Function[int], opts ...Option) (Learner, error) {
	options := optionNew(opts...)

	if math.IsNaN(options.atol) && math.IsNaN(options.rtol) {
		return nil, learner.ErrNoTolerance
	}

	for _, tol := range []float64{options.atol, options.rtol} {
		if tol <= 0 {
			return nil, fmt.Errorf("%w: tolerance %v", learner.ErrNoTolerance, tol)
		}
	}

	return &learnerImpl{
		logger: options.logger.WithFields(l.StringField(l.ClsKey, "learnerImpl")),
		f:      f,
		atol:   options.atol,
		rtol:   options.rtol,
		st: State{
			Data:    make(map[int]float64),
			Pending: make(map[int]bool),
		},
	}, nil
}

type learnerImpl struct {
	logger l.Wrapper

	f    learner.Function[int]
	atol float64
	rtol float64

	st State
}

func (impl *learnerImpl) Function() learner.Function[int] {
	return impl.f
}

func (impl *learnerImpl) N() int {
	return impl.st.N
}

func (impl *learnerImpl) Mean() float64 {
	if impl.st.N == 0 {
		return math.NaN()
	}

	return impl.st.Sum / float64(impl.st.N)
}

func (impl *learnerImpl) Std() float64 {
	n := float64(impl.st.N)
	if impl.st.N < 2 {
		return math.Inf(1)
	}

	mean := impl.Mean()

	return math.Sqrt(math.Max(0, (impl.st.SumSq-n*mean*mean)/(n-1)))
}

func (impl *learnerImpl) AddPoint(idx int, y learner.Value) error {
	if idx < 0 {
		return fmt.Errorf("%w: index %d", learner.ErrInvalidPoint, idx)
	}

	st := &impl.st
	st.NRequested = max(st.NRequested, idx+1)

	if y.IsPending() {
		if _, ok := st.Data[idx]; !ok {
			st.Pending[idx] = true
		}

		return nil
	}

	delete(st.Pending, idx)

	v := y.Y()

	if old, ok := st.Data[idx]; ok {
		if old == v {
			return nil
		}

		impl.logger.WithFields(l.IntField("index", idx)).Debug("value replaced")

		st.N--
		st.Sum -= old
		st.SumSq -= old * old
	}

	st.Data[idx] = v
	st.N++
	st.Sum += v
	st.SumSq += v * v

	return nil
}

// Loss is the standard error of the mean measured against the tolerances. The combined view
// divides by the number of requested draws instead of the number of known ones.
func (impl *learnerImpl) Loss(real bool) float64 {
	if impl.st.N < 2 {
		return math.Inf(1)
	}

	n := impl.st.N
	if !real {
		n = impl.st.NRequested
	}

	se := impl.Std() / math.Sqrt(float64(n))
	if se == 0 {
		return 0
	}

	loss := 0.0

	if !math.IsNaN(impl.atol) {
		loss = math.Max(loss, se/impl.atol)
	}

	if !math.IsNaN(impl.rtol) {
		loss = math.Max(loss, se/math.Abs(impl.Mean())/impl.rtol)
	}

	return loss
}

func (impl *learnerImpl) ChoosePoints(n int, addData bool) (points []int, lossImprovements []float64, err error) {
	if n <= 0 {
		return
	}

	loss := impl.Loss(true)

	for idx := 0; idx < n; idx++ {
		points = append(points, impl.st.NRequested+idx)
		lossImprovements = append(lossImprovements, loss)
	}

	if addData {
		err = learner.AddPending[int](impl, points)
	}

	return
}

func (impl *learnerImpl) RemoveUnfinished() {}

func (impl *learnerImpl) Snapshot() learner.Snapshot {
	st := impl.st
	st.Data = maps.Clone(impl.st.Data)
	st.Pending = maps.Clone(impl.st.Pending)

	return st
}

func (impl *learnerImpl) Restore(s learner.Snapshot) error {
	st, ok := s.(State)
	if !ok {
		return fmt.Errorf("%w: %T", learner.ErrSnapshotMismatch, s)
	}

	impl.st = st
	impl.st.Data = maps.Clone(st.Data)
	impl.st.Pending = maps.Clone(st.Pending)

	return nil
}
