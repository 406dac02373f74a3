package learner2d

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sgostarter/libadaptive/learner"
	"github.com/stretchr/testify/assert"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

var unit = rect.Rect{LLx: 0, LLy: 0, URx: 1, URy: 1}

func ring(p vec.Vec2) float64 {
	const a = 0.2

	r := p.X*p.X + p.Y*p.Y - 0.75*0.75

	return p.X + math.Exp(-r*r/math.Pow(a, 4))
}

func plane(p vec.Vec2) float64 {
	return p.X + 2*p.Y
}

func seeded(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed+1))) // nolint: gosec
}

func newUTLearner(t *testing.T, f learner.Function[vec.Vec2], bounds rect.Rect, opts ...Option) Learner {
	t.Helper()

	l, err := New(f, bounds, append([]Option{seeded(1)}, opts...)...)
	assert.Nil(t, err)

	return l
}

func learn(t *testing.T, l Learner, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		points, _, err := l.ChoosePoints(1, true)
		assert.Nil(t, err)
		assert.Len(t, points, 1)
		assert.Nil(t, l.AddPoint(points[0], learner.Real(l.Function()(points[0]))))
	}
}

func TestNew(t *testing.T) {
	_, err := New(plane, rect.Rect{LLx: 0, LLy: 0, URx: 0, URy: 1})
	assert.ErrorIs(t, err, learner.ErrInvalidBounds)
	assert.ErrorIs(t, err, learner.ErrConfiguration)

	_, err = New(plane, rect.Rect{LLx: 0, LLy: math.NaN(), URx: 1, URy: 1})
	assert.ErrorIs(t, err, learner.ErrInvalidBounds)

	_, err = New(plane, unit, WithMinResolution(1))
	assert.ErrorIs(t, err, learner.ErrInvalidResolution)

	l := newUTLearner(t, plane, unit, WithMinResolution(3))
	assert.Equal(t, unit, l.Bounds())
	assert.Equal(t, 3.0, l.Function()(vec.Vec2{X: 1, Y: 1}))
	assert.Len(t, l.Snapshot().(State).Stack, 9) // nolint: forcetypeassert

	assert.ErrorIs(t, l.AddPoint(vec.Vec2{X: math.Inf(1)}, learner.Real(0)), learner.ErrInvalidPoint)
	assert.ErrorIs(t, l.Restore("foreign"), learner.ErrSnapshotMismatch)
}

func TestSeedGrid(t *testing.T) {
	l := newUTLearner(t, plane, unit)

	points, improvements, err := l.ChoosePoints(4, false)
	assert.Nil(t, err)
	assert.Equal(t, []vec.Vec2{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1}}, points)

	for _, improvement := range improvements {
		assert.True(t, math.IsInf(improvement, 1))
	}

	assert.True(t, math.IsInf(l.Loss(true), 1))
	assert.True(t, math.IsInf(l.Loss(false), 1))

	for idx, p := range points {
		assert.True(t, math.IsInf(l.Loss(true), 1))
		assert.Nil(t, l.AddPoint(p, learner.Real(plane(p))))
		assert.Len(t, l.Snapshot().(State).Stack, 3-idx) // nolint: forcetypeassert
	}

	assert.False(t, math.IsInf(l.Loss(true), 0))
	assert.False(t, math.IsInf(l.Loss(false), 0))
	assert.InDelta(t, 0, l.Loss(true), 1e-9)
}

func TestPendingSeedsKeepLossInfinite(t *testing.T) {
	l := newUTLearner(t, plane, unit)

	points, _, err := l.ChoosePoints(4, true)
	assert.Nil(t, err)
	assert.Len(t, l.PointsCombined(), 4)
	assert.Empty(t, l.Points())

	for _, p := range points[:3] {
		assert.Nil(t, l.AddPoint(p, learner.Real(plane(p))))
	}

	assert.True(t, math.IsInf(l.Loss(true), 1))
	assert.True(t, math.IsInf(l.Loss(false), 1))

	for _, v := range l.ValuesCombined()[3:] {
		assert.Less(t, v, 1e-15)
	}

	assert.Nil(t, l.AddPoint(points[3], learner.Real(plane(points[3]))))
	assert.False(t, math.IsInf(l.Loss(true), 0))
}

func TestChooseZero(t *testing.T) {
	l := newUTLearner(t, ring, unit)

	points, improvements, err := l.ChoosePoints(0, true)
	assert.Nil(t, err)
	assert.Empty(t, points)
	assert.Empty(t, improvements)
	assert.Empty(t, l.PointsCombined())
}

func TestChooseBeyondSeeds(t *testing.T) {
	l := newUTLearner(t, ring, unit)

	points, improvements, err := l.ChoosePoints(10, true)
	assert.Nil(t, err)
	assert.Len(t, points, 10)
	assert.Len(t, improvements, 10)
	assert.Len(t, l.PointsCombined(), 10)

	seen := make(map[vec.Vec2]bool)

	for _, p := range points {
		assert.False(t, seen[p])
		seen[p] = true

		assert.True(t, p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1)
	}
}

func TestChooseIsReproducible(t *testing.T) {
	l1 := newUTLearner(t, ring, unit)
	l2 := newUTLearner(t, ring, unit)

	p1, i1, err := l1.ChoosePoints(12, true)
	assert.Nil(t, err)

	p2, i2, err := l2.ChoosePoints(12, true)
	assert.Nil(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, i1, i2)
}

func TestChooseWithoutAddingKeepsState(t *testing.T) {
	l := newUTLearner(t, ring, rect.Rect{LLx: -1, LLy: -1, URx: 1, URy: 1})
	learn(t, l, 30)

	_, _, err := l.ChoosePoints(3, true)
	assert.Nil(t, err)

	before := l.Snapshot()

	points, _, err := l.ChoosePoints(5, false)
	assert.Nil(t, err)
	assert.Len(t, points, 5)
	assert.Empty(t, cmp.Diff(before, l.Snapshot()))
}

func TestPendingInterpolation(t *testing.T) {
	l := newUTLearner(t, plane, unit)
	learn(t, l, 4)

	p := vec.Vec2{X: 0.5, Y: 0.25}
	assert.Nil(t, l.AddPoint(p, learner.Pending))

	values := l.ValuesCombined()
	assert.Len(t, values, 5)
	assert.InDelta(t, plane(p), values[4], 1e-12)
	assert.Equal(t, 0.0, l.Snapshot().(State).Values[4]) // nolint: forcetypeassert

	assert.Nil(t, l.AddPoint(vec.Vec2{X: 0, Y: 0}, learner.Pending))
	assert.Len(t, l.Points(), 4)
}

func TestRemoveUnfinished(t *testing.T) {
	l := newUTLearner(t, plane, unit)

	_, _, err := l.ChoosePoints(4, true)
	assert.Nil(t, err)

	l.RemoveUnfinished()
	assert.Empty(t, l.PointsCombined())
	assert.Len(t, l.Snapshot().(State).Stack, 4) // nolint: forcetypeassert

	points, _, err := l.ChoosePoints(4, true)
	assert.Nil(t, err)
	assert.ElementsMatch(t, []vec.Vec2{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1}}, points)

	l = newUTLearner(t, ring, rect.Rect{LLx: -1, LLy: -1, URx: 1, URy: 1})
	learn(t, l, 20)

	_, _, err = l.ChoosePoints(6, true)
	assert.Nil(t, err)
	assert.Len(t, l.PointsCombined(), 26)

	l.RemoveUnfinished()
	assert.Equal(t, l.Points(), l.PointsCombined())
	assert.Equal(t, l.Values(), l.ValuesCombined())
	assert.Equal(t, l.Loss(true), l.Loss(false))
}

func TestIdempotentAddPoint(t *testing.T) {
	l := newUTLearner(t, ring, unit)
	learn(t, l, 6)

	p := vec.Vec2{X: 0.3, Y: 0.6}
	assert.Nil(t, l.AddPoint(p, learner.Real(ring(p))))

	before := l.Snapshot()

	assert.Nil(t, l.AddPoint(p, learner.Real(ring(p))))
	assert.Empty(t, cmp.Diff(before, l.Snapshot()))

	assert.Nil(t, l.AddPoint(p, learner.Pending))
	assert.Empty(t, cmp.Diff(before, l.Snapshot()))
}

func TestStoreGrows(t *testing.T) {
	l := newUTLearner(t, plane, unit)

	for i := 0; i < 150; i++ {
		p := vec.Vec2{X: float64(i%15) / 14, Y: float64(i/15) / 9}
		assert.Nil(t, l.AddPoint(p, learner.Real(plane(p))))
	}

	st := l.Snapshot().(State) // nolint: forcetypeassert
	assert.Equal(t, 150, st.N)
	assert.Len(t, st.Points, 2*initialCapacity+10)
	assert.Len(t, l.Points(), 150)
	assert.Empty(t, st.Stack)
	assert.InDelta(t, 0, l.Loss(true), 1e-9)
}

func TestLearnRing(t *testing.T) {
	l := newUTLearner(t, ring, rect.Rect{LLx: -1, LLy: -1, URx: 1, URy: 1})
	learn(t, l, 100)

	assert.Len(t, l.Points(), 100)

	loss := l.Loss(true)
	assert.False(t, math.IsInf(loss, 0))
	assert.Greater(t, loss, 0.0)
	assert.Equal(t, loss, l.Loss(false))
}

func TestFillStackSkipsQueuedCandidate(t *testing.T) {
	saddle := func(p vec.Vec2) float64 { return p.X * p.Y }

	l := newUTLearner(t, saddle, unit)

	points, _, err := l.ChoosePoints(4, true)
	assert.Nil(t, err)

	for _, p := range points {
		assert.Nil(t, l.AddPoint(p, learner.Real(saddle(p))))
	}

	impl := l.(*learnerImpl) // nolint: forcetypeassert

	assert.Nil(t, impl.fillStack(1))
	assert.Len(t, impl.st.Stack, 1)

	worst := impl.st.Stack[0]

	st := l.Snapshot().(State) // nolint: forcetypeassert
	st.Stack = []Candidate{{Point: worst.Point.Add(vec.Vec2{X: 1e-15}), LossImprovement: worst.LossImprovement}}
	assert.Nil(t, l.Restore(st))

	assert.Nil(t, impl.fillStack(2))
	assert.Len(t, impl.st.Stack, 2)
	assert.Equal(t, st.Stack[0], impl.st.Stack[0])
	assert.Greater(t, impl.st.Stack[1].Point.Sub(worst.Point).Length(), 1e-9)
}
