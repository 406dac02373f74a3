package learner1d

import (
	"cmp"
	"container/heap"
	"math"
	"slices"

	"github.com/sgostarter/libadaptive/learner"
)

func (impl *learnerImpl) ChoosePoints(n int, addData bool) (points []float64, lossImprovements []float64, err error) {
	if n <= 0 {
		return
	}

	missing := impl.missingBounds()

	switch {
	case len(missing) >= n:
		points = slices.Clone(missing[:n])
		lossImprovements = infinities(n)
	case len(impl.st.Data)+len(impl.st.Pending) == 0:
		points = linspace(impl.bounds[0], impl.bounds[1], n)
		lossImprovements = infinities(n)
	case len(missing) > 0:
		points, lossImprovements, err = impl.splitWithBounds(missing, n)
		if err != nil {
			return
		}
	default:
		points, lossImprovements = impl.split(n)
	}

	if addData {
		err = learner.AddPending[float64](impl, points)
	}

	return
}

func (impl *learnerImpl) missingBounds() (missing []float64) {
	for _, bound := range impl.bounds {
		_, known := impl.st.Data[bound]
		_, pending := impl.st.Pending[bound]

		if !known && !pending {
			missing = append(missing, bound)
		}
	}

	return
}

// splitWithBounds returns the missing bounds and places the remaining points on the intervals the
// learner would have once those bounds were pending.
func (impl *learnerImpl) splitWithBounds(missing []float64, n int) (points []float64, lossImprovements []float64, err error) {
	var (
		inner             []float64
		innerImprovements []float64
	)

	err = learner.Restore(func() error {
		if e := learner.AddPending[float64](impl, missing); e != nil {
			return e
		}

		inner, innerImprovements = impl.split(n - len(missing))

		return nil
	}, impl)
	if err != nil {
		return
	}

	points = append(slices.Clone(missing), inner...)
	lossImprovements = append(infinities(len(missing)), innerImprovements...)

	sortByPoint(points, lossImprovements)

	return
}

func sortByPoint(points []float64, lossImprovements []float64) {
	order := make([]int, len(points))
	for idx := range order {
		order[idx] = idx
	}

	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(points[a], points[b])
	})

	sortedPoints := make([]float64, len(points))
	sortedImprovements := make([]float64, len(points))

	for idx, from := range order {
		sortedPoints[idx], sortedImprovements[idx] = points[from], lossImprovements[from]
	}

	copy(points, sortedPoints)
	copy(lossImprovements, sortedImprovements)
}

// split distributes n points over the combined intervals, each time giving one more point to the
// interval with the largest loss per sub-interval.
func (impl *learnerImpl) split(n int) (points []float64, lossImprovements []float64) {
	quals := make(qualityHeap, 0, len(impl.st.LossesCombined))
	for interval, loss := range impl.st.LossesCombined {
		quals = append(quals, &quality{interval: interval, loss: loss, k: 1})
	}

	heap.Init(&quals)

	for i := 0; i < n; i++ {
		quals[0].k++
		heap.Fix(&quals, 0)
	}

	slices.SortFunc(quals, func(a, b *quality) int {
		return compareIntervals(a.interval, b.interval)
	})

	for _, q := range quals {
		if q.k == 1 {
			continue
		}

		step := (q.interval.Hi - q.interval.Lo) / float64(q.k)
		improvement := q.loss / float64(q.k-1)

		for i := 1; i < q.k; i++ {
			points = append(points, q.interval.Lo+step*float64(i))
			lossImprovements = append(lossImprovements, improvement)
		}
	}

	return
}

func infinities(n int) []float64 {
	values := make([]float64, n)
	for idx := range values {
		values[idx] = math.Inf(1)
	}

	return values
}

func compareIntervals(a, b Interval) int {
	switch {
	case a.Lo < b.Lo:
		return -1
	case a.Lo > b.Lo:
		return 1
	case a.Hi < b.Hi:
		return -1
	case a.Hi > b.Hi:
		return 1
	default:
		return 0
	}
}

type quality struct {
	interval Interval
	loss     float64
	k        int
}

func (q *quality) priority() float64 {
	return q.loss / float64(q.k)
}

type qualityHeap []*quality

func (h qualityHeap) Len() int { return len(h) }

func (h qualityHeap) Less(i, j int) bool {
	if pi, pj := h[i].priority(), h[j].priority(); pi != pj {
		return pi > pj
	}

	return compareIntervals(h[i].interval, h[j].interval) < 0
}

func (h qualityHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *qualityHeap) Push(x any) {
	*h = append(*h, x.(*quality)) // nolint: forcetypeassert
}

func (h *qualityHeap) Pop() any {
	old := *h
	q := old[len(old)-1]
	*h = old[:len(old)-1]

	return q
}
