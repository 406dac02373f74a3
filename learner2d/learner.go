package learner2d

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libadaptive/geometry"
	"github.com/sgostarter/libadaptive/learner"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func New(f learner.Function[vec.Vec2], bounds rect.Rect, opts ...Option) (Learner, error) {
	for _, v := range []float64{bounds.LLx, bounds.LLy, bounds.URx, bounds.URy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %v", learner.ErrInvalidBounds, bounds)
		}
	}

	if bounds.LLx >= bounds.URx || bounds.LLy >= bounds.URy {
		return nil, fmt.Errorf("%w: %v", learner.ErrInvalidBounds, bounds)
	}

	options := optionNew(opts...)

	if options.minResolution < 2 {
		return nil, fmt.Errorf("%w: %d", learner.ErrInvalidResolution, options.minResolution)
	}

	impl := &learnerImpl{
		logger: options.logger.WithFields(l.StringField(l.ClsKey, "learnerImpl")),
		f:      f,
		bounds: bounds,
		center: vec.Vec2{X: (bounds.LLx + bounds.URx) / 2, Y: (bounds.LLy + bounds.URy) / 2},
		rnd:    options.rnd,
		st:     newState(),
	}

	xs := linspace(bounds.LLx, bounds.URx, options.minResolution)
	ys := linspace(bounds.LLy, bounds.URy, options.minResolution)

	for _, x := range xs {
		for _, y := range ys {
			impl.seeds = append(impl.seeds, vec.Vec2{X: x, Y: y})
		}
	}

	for _, p := range impl.seeds {
		impl.st.Stack = append(impl.st.Stack, Candidate{Point: p, LossImprovement: math.Inf(1)})
	}

	return impl, nil
}

type learnerImpl struct {
	logger l.Wrapper

	f      learner.Function[vec.Vec2]
	bounds rect.Rect
	center vec.Vec2
	seeds  []vec.Vec2
	rnd    *rand.Rand

	st State
}

func (impl *learnerImpl) Function() learner.Function[vec.Vec2] {
	return impl.f
}

func (impl *learnerImpl) Bounds() rect.Rect {
	return impl.bounds
}

func (impl *learnerImpl) Points() []vec.Vec2 {
	points, _ := impl.st.realData()

	return points
}

func (impl *learnerImpl) Values() []float64 {
	_, values := impl.st.realData()

	return values
}

func (impl *learnerImpl) PointsCombined() []vec.Vec2 {
	return slices.Clone(impl.st.Points[:impl.st.N])
}

func (impl *learnerImpl) ValuesCombined() []float64 {
	_, values := impl.combined()

	return values
}

func (impl *learnerImpl) AddPoint(p vec.Vec2, y learner.Value) error {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return fmt.Errorf("%w: %v", learner.ErrInvalidPoint, p)
	}

	st := &impl.st

	if y.IsPending() {
		if st.known(p) {
			return nil
		}

		st.Pending[p] = st.put(p, 0)
	} else {
		st.put(p, y.Y())
		delete(st.Pending, p)
	}

	st.unstack(p)

	return nil
}

func (impl *learnerImpl) Loss(real bool) float64 {
	if !impl.seedsDone() {
		return math.Inf(1)
	}

	points, values := impl.st.realData()
	if !real {
		points, values = impl.combined()
	}

	tri, err := impl.triangulate(points)
	if err != nil {
		return math.Inf(1)
	}

	return slices.Max(triangleLosses(tri, values))
}

func (impl *learnerImpl) RemoveUnfinished() {
	impl.st.truncate()

	var requeue []Candidate

	for _, p := range impl.seeds {
		if impl.st.known(p) || slices.ContainsFunc(impl.st.Stack, func(c Candidate) bool { return c.Point == p }) {
			continue
		}

		requeue = append(requeue, Candidate{Point: p, LossImprovement: math.Inf(1)})
	}

	impl.st.Stack = append(requeue, impl.st.Stack...)
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

func (impl *learnerImpl) seedsDone() bool {
	for _, p := range impl.seeds {
		if !impl.st.known(p) {
			return false
		}
	}

	return true
}

// combined returns every stored point with pending values filled in. Once the seed grid is
// known the real linear interpolant is used, before that a tiny random non-zero placeholder.
func (impl *learnerImpl) combined() (points []vec.Vec2, values []float64) {
	points = slices.Clone(impl.st.Points[:impl.st.N])
	values = slices.Clone(impl.st.Values[:impl.st.N])

	if len(impl.st.Pending) == 0 {
		return
	}

	pending := make([]int, 0, len(impl.st.Pending))
	for _, idx := range impl.st.Pending {
		pending = append(pending, idx)
	}

	slices.Sort(pending)

	if impl.seedsDone() {
		realPoints, realValues := impl.st.realData()

		if tri, err := impl.triangulate(realPoints); err == nil {
			for _, idx := range pending {
				values[idx], _ = tri.Interpolate(realValues, impl.scale(points[idx]))
			}

			return
		}
	}

	for _, idx := range pending {
		values[idx] = impl.rnd.Float64() * 1e-15
	}

	return
}

// triangulate works in coordinates where the bounds map onto the unit square centered at zero.
func (impl *learnerImpl) triangulate(points []vec.Vec2) (*geometry.Triangulation, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("triangulate %d points: %w", len(points), learner.ErrTooFewPoints)
	}

	scaled := make([]vec.Vec2, len(points))
	for idx, p := range points {
		scaled[idx] = impl.scale(p)
	}

	return geometry.Triangulate(scaled)
}

func (impl *learnerImpl) scale(p vec.Vec2) vec.Vec2 {
	d := p.Sub(impl.center)

	return vec.Vec2{X: d.X / impl.bounds.Dx(), Y: d.Y / impl.bounds.Dy()}
}

func (impl *learnerImpl) unscale(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: p.X * impl.bounds.Dx(), Y: p.Y * impl.bounds.Dy()}.Add(impl.center)
}

func (impl *learnerImpl) clip(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: math.Min(math.Max(p.X, impl.bounds.LLx), impl.bounds.URx),
		Y: math.Min(math.Max(p.Y, impl.bounds.LLy), impl.bounds.URy),
	}
}

func linspace(lo, hi float64, n int) []float64 {
	points := make([]float64, n)
	step := (hi - lo) / float64(n-1)

	for idx := range points {
		points[idx] = lo + step*float64(idx)
	}

	points[n-1] = hi

	return points
}
