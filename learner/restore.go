package learner

// Restore runs fn and then puts every learner back into the state it had before, also
// when fn fails or panics.
func Restore(fn func() error, learners ...Stateful) (err error) {
	snapshots := make([]Snapshot, len(learners))
	for idx, l := range learners {
		snapshots[idx] = l.Snapshot()
	}

	defer func() {
		for idx, l := range learners {
			if e := l.Restore(snapshots[idx]); e != nil && err == nil {
				err = e
			}
		}
	}()

	err = fn()

	return
}
