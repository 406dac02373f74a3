package balancing

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sgostarter/libadaptive/learner"
	"github.com/sgostarter/libadaptive/learner1d"
	"github.com/sgostarter/libadaptive/learner2d"
	"github.com/stretchr/testify/assert"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func new1D(t *testing.T, f learner.Function[float64]) learner1d.Learner {
	t.Helper()

	l, err := learner1d.New(f, 0, 1)
	assert.Nil(t, err)

	return l
}

func new2D(t *testing.T) learner2d.Learner {
	t.Helper()

	l, err := learner2d.New(func(p vec.Vec2) float64 { return p.X * p.Y }, rect.Rect{LLx: 0, LLy: 0, URx: 1, URy: 1},
		learner2d.WithRand(rand.New(rand.NewPCG(1, 2)))) // nolint: gosec
	assert.Nil(t, err)

	return l
}

func identity(x float64) float64 { return x }

func TestNewLearner(t *testing.T) {
	_, err := NewLearner[float64](nil, nil)
	assert.ErrorIs(t, err, learner.ErrNoLearners)
	assert.ErrorIs(t, err, learner.ErrConfiguration)

	_, err = NewLearner([]learner.Learner[any]{learner.Erase[float64](new1D(t, identity)), learner.Erase[vec.Vec2](new2D(t))}, nil)
	assert.ErrorIs(t, err, learner.ErrMixedLearners)
	assert.ErrorIs(t, err, learner.ErrConfiguration)

	b, err := NewLearner([]learner.Learner[any]{learner.Erase[float64](new1D(t, identity)), learner.Erase[float64](new1D(t, identity))}, nil)
	assert.Nil(t, err)
	assert.Len(t, b.Learners(), 2)
}

func TestFunctionDispatch(t *testing.T) {
	b, err := NewLearner([]learner.Learner[float64]{
		new1D(t, identity),
		new1D(t, func(x float64) float64 { return 2 * x }),
	}, nil)
	assert.Nil(t, err)

	assert.Equal(t, 3.0, b.Function()(Point[float64]{Index: 0, X: 3}))
	assert.Equal(t, 6.0, b.Function()(Point[float64]{Index: 1, X: 3}))
}

func TestChooseGreedy(t *testing.T) {
	fresh := new1D(t, identity)
	seeded := new1D(t, identity)
	assert.Nil(t, learner.AddData[float64](seeded, []float64{0, 1}, []learner.Value{learner.Real(0), learner.Real(1)}))

	b, err := NewLearner([]learner.Learner[float64]{fresh, seeded}, nil)
	assert.Nil(t, err)
	assert.True(t, math.IsInf(b.Loss(true), 1))

	points, improvements, err := b.ChoosePoints(0, true)
	assert.Nil(t, err)
	assert.Empty(t, points)
	assert.Empty(t, improvements)

	points, improvements, err = b.ChoosePoints(3, true)
	assert.Nil(t, err)
	assert.Equal(t, []Point[float64]{{Index: 0, X: 0}, {Index: 0, X: 1}, {Index: 1, X: 0.5}}, points)
	assert.True(t, math.IsInf(improvements[0], 1))
	assert.True(t, math.IsInf(improvements[1], 1))
	assert.InDelta(t, math.Sqrt2, improvements[2], 1e-12)

	assert.Len(t, fresh.Snapshot().(learner1d.State).Pending, 2)  // nolint: forcetypeassert
	assert.Len(t, seeded.Snapshot().(learner1d.State).Pending, 1) // nolint: forcetypeassert

	b.RemoveUnfinished()
	assert.Empty(t, fresh.Snapshot().(learner1d.State).Pending)  // nolint: forcetypeassert
	assert.Empty(t, seeded.Snapshot().(learner1d.State).Pending) // nolint: forcetypeassert
}

func TestAddPointRoutes(t *testing.T) {
	first := new1D(t, identity)
	second := new1D(t, identity)

	b, err := NewLearner([]learner.Learner[float64]{first, second}, nil)
	assert.Nil(t, err)

	assert.Nil(t, learner.AddData[Point[float64]](b, []Point[float64]{{Index: 1, X: 0}, {Index: 1, X: 1}},
		[]learner.Value{learner.Real(0), learner.Real(1)}))

	xs, _ := second.Data()
	assert.Equal(t, []float64{0, 1}, xs)

	xs, _ = first.Data()
	assert.Empty(t, xs)

	assert.True(t, math.IsInf(b.Loss(true), 1))
	assert.Nil(t, learner.AddData[float64](first, []float64{0, 1}, []learner.Value{learner.Real(0), learner.Real(0)}))
	assert.InDelta(t, math.Sqrt2, b.Loss(true), 1e-12)

	assert.ErrorIs(t, b.AddPoint(Point[float64]{Index: 2, X: 0}, learner.Real(0)), learner.ErrInvalidPoint)
	assert.ErrorIs(t, b.AddPoint(Point[float64]{Index: -1, X: 0}, learner.Real(0)), learner.ErrInvalidPoint)
}

func TestChooseWithoutAddingKeepsState1D(t *testing.T) {
	children := []learner.Learner[float64]{new1D(t, identity), new1D(t, math.Sin), new1D(t, math.Cos)}

	for idx, child := range children[1:] {
		xs := []float64{0, 0.3, 1}
		ys := make([]learner.Value, len(xs))

		for i, x := range xs {
			ys[i] = learner.Real(child.Function()(x) * float64(idx+1))
		}

		assert.Nil(t, learner.AddData(child, xs, ys))
		assert.Nil(t, child.AddPoint(0.6, learner.Pending))
	}

	b, err := NewLearner(children, nil)
	assert.Nil(t, err)

	before := make([]learner.Snapshot, len(children))
	for idx, child := range children {
		before[idx] = child.Snapshot()
	}

	points, improvements, err := b.ChoosePoints(6, false)
	assert.Nil(t, err)
	assert.Len(t, points, 6)
	assert.Len(t, improvements, 6)

	for idx, child := range children {
		assert.Empty(t, cmp.Diff(before[idx], child.Snapshot()))
	}

	again, _, err := b.ChoosePoints(6, false)
	assert.Nil(t, err)
	assert.Equal(t, points, again)
}

func TestChooseWithoutAddingKeepsState2D(t *testing.T) {
	children := []learner.Learner[vec.Vec2]{new2D(t), new2D(t)}

	points, _, err := children[1].ChoosePoints(4, true)
	assert.Nil(t, err)

	for _, p := range points {
		assert.Nil(t, children[1].AddPoint(p, learner.Real(children[1].Function()(p))))
	}

	b, err := NewLearner(children, nil)
	assert.Nil(t, err)

	before := b.Snapshot()

	chosen, _, err := b.ChoosePoints(5, false)
	assert.Nil(t, err)
	assert.Len(t, chosen, 5)
	assert.Empty(t, cmp.Diff(before, b.Snapshot()))
}

func TestRestore(t *testing.T) {
	b, err := NewLearner([]learner.Learner[float64]{new1D(t, identity), new1D(t, identity)}, nil)
	assert.Nil(t, err)

	snapshot := b.Snapshot()

	_, _, err = b.ChoosePoints(4, true)
	assert.Nil(t, err)
	assert.NotEmpty(t, cmp.Diff(snapshot, b.Snapshot()))

	assert.Nil(t, b.Restore(snapshot))
	assert.Empty(t, cmp.Diff(snapshot, b.Snapshot()))

	assert.ErrorIs(t, b.Restore(State{}), learner.ErrSnapshotMismatch)
	assert.ErrorIs(t, b.Restore(3), learner.ErrSnapshotMismatch)
}
