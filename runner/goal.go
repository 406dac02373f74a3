package runner

// Goal reports whether a run is finished given its current stats.
type Goal func(s Stats) bool

func LossGoal(target float64) Goal {
	return func(s Stats) bool {
		return s.Loss <= target
	}
}

func NPointsGoal(n int) Goal {
	return func(s Stats) bool {
		return s.Points >= n
	}
}

func AnyGoal(goals ...Goal) Goal {
	return func(s Stats) bool {
		for _, goal := range goals {
			if goal(s) {
				return true
			}
		}

		return false
	}
}
