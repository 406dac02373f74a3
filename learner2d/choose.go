package learner2d

import (
	"fmt"
	"math"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libadaptive/geometry"
	"github.com/sgostarter/libadaptive/learner"
	"seehuhn.de/go/geom/vec"
)

const seedCorners = 4

func (impl *learnerImpl) ChoosePoints(n int, addData bool) (points []vec.Vec2, lossImprovements []float64, err error) {
	if n <= 0 {
		return
	}

	if addData {
		return impl.chooseAndAdd(n)
	}

	err = learner.Restore(func() (err error) {
		points, lossImprovements, err = impl.chooseAndAdd(n)

		return
	}, impl)

	return
}

func (impl *learnerImpl) chooseAndAdd(n int) (points []vec.Vec2, lossImprovements []float64, err error) {
	for left := n; left > 0; {
		if len(impl.st.Stack) < left && impl.st.N >= seedCorners {
			if e := impl.fillStack(left); e != nil {
				impl.logger.WithFields(l.ErrorField(e)).Debug("fill stack")
			}
		}

		take := min(left, len(impl.st.Stack))
		if take == 0 {
			impl.logger.WithFields(l.IntField("requested", n), l.IntField("chosen", len(points))).
				Debug("no distinct candidates left")

			break
		}

		chosen := make([]vec.Vec2, 0, take)

		for _, c := range impl.st.Stack[:take] {
			chosen = append(chosen, c.Point)
			lossImprovements = append(lossImprovements, c.LossImprovement)
		}

		if err = learner.AddPending[vec.Vec2](impl, chosen); err != nil {
			return
		}

		points = append(points, chosen...)
		left -= take
	}

	return
}

// fillStack queues centroids of the worst triangles of the combined triangulation until the
// stack holds stackTill candidates or every triangle has been considered.
func (impl *learnerImpl) fillStack(stackTill int) error {
	points, values := impl.combined()

	tri, err := impl.triangulate(points)
	if err != nil {
		return fmt.Errorf("fill stack: %w", err)
	}

	losses := triangleLosses(tri, values)
	eps := math.SmallestNonzeroFloat64
	if ptp := extent(points); ptp > 0 {
		eps = epsilon * ptp * 100
	}

	index := geometry.NewPointIndex(points)
	for _, c := range impl.st.Stack {
		index.Insert(c.Point)
	}

	for range losses {
		j := argmax(losses)
		loss := losses[j]
		losses[j] = math.Inf(-1)

		p := impl.clip(impl.unscale(tri.Centroid(j)))
		if index.Contains(p, eps) {
			continue
		}

		impl.st.Stack = append(impl.st.Stack, Candidate{Point: p, LossImprovement: loss})
		index.Insert(p)

		if len(impl.st.Stack) >= stackTill {
			break
		}
	}

	return nil
}

// epsilon is the spacing of float64 values around one.
const epsilon = 2.220446049250313e-16

func extent(points []vec.Vec2) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)

	for _, p := range points {
		lo = math.Min(lo, math.Min(p.X, p.Y))
		hi = math.Max(hi, math.Max(p.X, p.Y))
	}

	return hi - lo
}
