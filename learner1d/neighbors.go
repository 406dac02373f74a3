package learner1d

import (
	"maps"
	"slices"
)

func insertSorted(keys []float64, x float64) []float64 {
	pos, found := slices.BinarySearch(keys, x)
	if found {
		return keys
	}

	return slices.Insert(keys, pos, x)
}

// around returns the neighbors of x, which must be present in keys.
func around(keys []float64, x float64) (lo, hi float64, hasLo, hasHi bool) {
	pos, found := slices.BinarySearch(keys, x)
	if !found {
		return
	}

	if pos > 0 {
		lo, hasLo = keys[pos-1], true
	}

	if pos+1 < len(keys) {
		hi, hasHi = keys[pos+1], true
	}

	return
}

func adjacentPairs(keys []float64) []Interval {
	pairs := make([]Interval, 0, len(keys))
	for idx := 1; idx < len(keys); idx++ {
		pairs = append(pairs, Interval{Lo: keys[idx-1], Hi: keys[idx]})
	}

	return pairs
}

// interp is piecewise linear interpolation through (xs, ys), clamped to the end values.
func interp(xs, ys []float64, x float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	if x <= xs[0] {
		return ys[0]
	}

	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}

	pos, found := slices.BinarySearch(xs, x)
	if found {
		return ys[pos]
	}

	x0, x1 := xs[pos-1], xs[pos]
	y0, y1 := ys[pos-1], ys[pos]

	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}

	points := make([]float64, n)
	step := (hi - lo) / float64(n-1)

	for idx := range points {
		points[idx] = lo + step*float64(idx)
	}

	points[n-1] = hi

	return points
}

func (s State) clone() State {
	return State{
		Data:              maps.Clone(s.Data),
		Pending:           maps.Clone(s.Pending),
		Neighbors:         slices.Clone(s.Neighbors),
		NeighborsCombined: slices.Clone(s.NeighborsCombined),
		Losses:            maps.Clone(s.Losses),
		LossesCombined:    maps.Clone(s.LossesCombined),
		BBox:              s.BBox,
		Scale:             s.Scale,
		OldScale:          s.OldScale,
	}
}
