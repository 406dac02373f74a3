package learner1d

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libadaptive/learner"
)

func New(f learner.Function[float64], lo, hi float64, opts ...Option) (Learner, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo >= hi {
		return nil, fmt.Errorf("%w: [%v, %v]", learner.ErrInvalidBounds, lo, hi)
	}

	options := optionNew(opts...)

	impl := &learnerImpl{
		logger: options.logger.WithFields(l.StringField(l.ClsKey, "learnerImpl")),
		f:      f,
		bounds: [2]float64{lo, hi},
		st: State{
			Data:           make(map[float64]float64),
			Pending:        make(map[float64]float64),
			Losses:         make(map[Interval]float64),
			LossesCombined: make(map[Interval]float64),
			BBox:           [2][2]float64{{lo, hi}, {math.Inf(1), math.Inf(-1)}},
			Scale:          [2]float64{hi - lo, 0},
		},
	}

	impl.st.OldScale = impl.st.Scale

	return impl, nil
}

type learnerImpl struct {
	logger l.Wrapper

	f      learner.Function[float64]
	bounds [2]float64

	st State
}

func (impl *learnerImpl) Function() learner.Function[float64] {
	return impl.f
}

func (impl *learnerImpl) Bounds() (lo, hi float64) {
	return impl.bounds[0], impl.bounds[1]
}

func (impl *learnerImpl) Data() (xs, ys []float64) {
	xs = slices.Clone(impl.st.Neighbors)
	ys = make([]float64, len(xs))

	for idx, x := range xs {
		ys[idx] = impl.st.Data[x]
	}

	return
}

func (impl *learnerImpl) AddPoint(x float64, y learner.Value) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("%w: x=%v", learner.ErrInvalidPoint, x)
	}

	st := &impl.st
	isReal := !y.IsPending()

	if isReal {
		st.Data[x] = y.Y()
		delete(st.Pending, x)
	} else {
		if _, ok := st.Data[x]; ok {
			return nil
		}

		st.Pending[x] = 0
	}

	st.NeighborsCombined = insertSorted(st.NeighborsCombined, x)
	if isReal {
		st.Neighbors = insertSorted(st.Neighbors, x)
	}

	impl.updateScale(x, y)

	if !isReal {
		impl.interpolate()
	}

	impl.updateLosses(x, st.NeighborsCombined, impl.combinedValue, st.LossesCombined)

	if isReal {
		impl.updateLosses(x, st.Neighbors, impl.realValue, st.Losses)
	}

	if st.Scale[0] > 2*st.OldScale[0] || st.Scale[1] > 2*st.OldScale[1] {
		impl.rescale()
	}

	return nil
}

func (impl *learnerImpl) Loss(real bool) float64 {
	losses := impl.st.LossesCombined
	if real {
		losses = impl.st.Losses
	}

	if len(losses) == 0 {
		return math.Inf(1)
	}

	loss := math.Inf(-1)
	for _, v := range losses {
		loss = math.Max(loss, v)
	}

	return loss
}

func (impl *learnerImpl) RemoveUnfinished() {
	impl.st.Pending = make(map[float64]float64)
	impl.st.NeighborsCombined = slices.Clone(impl.st.Neighbors)
	impl.st.LossesCombined = maps.Clone(impl.st.Losses)
}

func (impl *learnerImpl) Snapshot() learner.Snapshot {
	return impl.st.clone()
}

func (impl *learnerImpl) Restore(s learner.Snapshot) error {
	st, ok := s.(State)
	if !ok {
		return fmt.Errorf("%w: %T", learner.ErrSnapshotMismatch, s)
	}

	impl.st = st.clone()

	return nil
}

//
//
//

func (impl *learnerImpl) realValue(x float64) float64 {
	return impl.st.Data[x]
}

func (impl *learnerImpl) combinedValue(x float64) float64 {
	if y, ok := impl.st.Data[x]; ok {
		return y
	}

	return impl.st.Pending[x]
}

func (impl *learnerImpl) intervalLoss(lo, hi float64, value func(float64) float64) float64 {
	dx := (hi - lo) / impl.st.Scale[0]
	if impl.st.Scale[1] == 0 {
		return math.Abs(dx)
	}

	return math.Hypot(dx, (value(hi)-value(lo))/impl.st.Scale[1])
}

func (impl *learnerImpl) updateLosses(x float64, keys []float64, value func(float64) float64, losses map[Interval]float64) {
	lo, hi, hasLo, hasHi := around(keys, x)

	if hasLo {
		losses[Interval{Lo: lo, Hi: x}] = impl.intervalLoss(lo, x, value)
	}

	if hasHi {
		losses[Interval{Lo: x, Hi: hi}] = impl.intervalLoss(x, hi, value)
	}

	if hasLo && hasHi {
		delete(losses, Interval{Lo: lo, Hi: hi})
	}
}

func (impl *learnerImpl) updateScale(x float64, y learner.Value) {
	bbox := &impl.st.BBox

	bbox[0][0] = math.Min(bbox[0][0], x)
	bbox[0][1] = math.Max(bbox[0][1], x)

	if !y.IsPending() {
		bbox[1][0] = math.Min(bbox[1][0], y.Y())
		bbox[1][1] = math.Max(bbox[1][1], y.Y())
	}

	impl.st.Scale[0] = bbox[0][1] - bbox[0][0]

	if bbox[1][0] <= bbox[1][1] {
		impl.st.Scale[1] = bbox[1][1] - bbox[1][0]
	}
}

func (impl *learnerImpl) rescale() {
	for interval := range impl.st.Losses {
		impl.st.Losses[interval] = impl.intervalLoss(interval.Lo, interval.Hi, impl.realValue)
	}

	for interval := range impl.st.LossesCombined {
		impl.st.LossesCombined[interval] = impl.intervalLoss(interval.Lo, interval.Hi, impl.combinedValue)
	}

	impl.logger.WithFields(l.StringField("scale", fmt.Sprint(impl.st.Scale)),
		l.StringField("oldScale", fmt.Sprint(impl.st.OldScale))).Debug("rescale")

	impl.st.OldScale = impl.st.Scale
}

func (impl *learnerImpl) interpolate() {
	xs, ys := impl.Data()

	for x := range impl.st.Pending {
		impl.st.Pending[x] = interp(xs, ys, x)
	}
}
