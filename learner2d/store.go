package learner2d

import (
	"maps"
	"slices"

	"seehuhn.de/go/geom/vec"
)

const initialCapacity = 100

func newState() State {
	return State{
		Points:  make([]vec.Vec2, initialCapacity),
		Values:  make([]float64, initialCapacity),
		Index:   make(map[vec.Vec2]int),
		Pending: make(map[vec.Vec2]int),
	}
}

func (s *State) grow() {
	if s.N < len(s.Points) {
		return
	}

	size := 2*len(s.Points) + 10

	points := make([]vec.Vec2, size)
	copy(points, s.Points)

	values := make([]float64, size)
	copy(values, s.Values)

	s.Points, s.Values = points, values
}

func (s *State) put(p vec.Vec2, v float64) int {
	idx, ok := s.Index[p]
	if !ok {
		s.grow()

		idx = s.N
		s.N++
		s.Index[p] = idx
	}

	s.Points[idx] = p
	s.Values[idx] = v

	return idx
}

func (s *State) known(p vec.Vec2) bool {
	if _, ok := s.Index[p]; !ok {
		return false
	}

	_, pending := s.Pending[p]

	return !pending
}

func (s *State) unstack(p vec.Vec2) {
	if idx := slices.IndexFunc(s.Stack, func(c Candidate) bool { return c.Point == p }); idx >= 0 {
		s.Stack = slices.Delete(s.Stack, idx, idx+1)
	}
}

func (s *State) realData() (points []vec.Vec2, values []float64) {
	points = make([]vec.Vec2, 0, s.N-len(s.Pending))
	values = make([]float64, 0, s.N-len(s.Pending))

	for idx := 0; idx < s.N; idx++ {
		if _, pending := s.Pending[s.Points[idx]]; pending {
			continue
		}

		points = append(points, s.Points[idx])
		values = append(values, s.Values[idx])
	}

	return
}

// truncate keeps only the points that have a value.
func (s *State) truncate() {
	points, values := s.realData()

	s.Points = make([]vec.Vec2, len(s.Points))
	s.Values = make([]float64, len(s.Values))
	s.Index = make(map[vec.Vec2]int, len(points))
	s.Pending = make(map[vec.Vec2]int)
	s.N = len(points)

	copy(s.Points, points)
	copy(s.Values, values)

	for idx, p := range points {
		s.Index[p] = idx
	}
}

func (s State) clone() State {
	return State{
		Points:  slices.Clone(s.Points),
		Values:  slices.Clone(s.Values),
		N:       s.N,
		Index:   maps.Clone(s.Index),
		Pending: maps.Clone(s.Pending),
		Stack:   slices.Clone(s.Stack),
	}
}
