package runner

import (
	"context"
	"sync"
	"time"
)

type watchDogConfig struct {
	CheckInterval time.Duration

	CheckMaxDuration time.Duration
	CheckFailCount   int
}

// watchDog calls notify when Touch has not been called for CheckMaxDuration on CheckFailCount
// consecutive checks.
type watchDog struct {
	cfg    watchDogConfig
	notify func()

	lock        sync.Mutex
	failCount   int
	lastTouchAt time.Time
}

func newWatchDog(cfg watchDogConfig, notify func()) *watchDog {
	if cfg.CheckMaxDuration <= 0 {
		cfg.CheckMaxDuration = time.Minute
	}

	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = cfg.CheckMaxDuration / 4
	}

	if cfg.CheckFailCount <= 0 {
		cfg.CheckFailCount = 1
	}

	return &watchDog{
		cfg:         cfg,
		notify:      notify,
		lastTouchAt: time.Now(),
	}
}

func (dog *watchDog) Touch() {
	dog.lock.Lock()
	defer dog.lock.Unlock()

	dog.lastTouchAt = time.Now()
}

func (dog *watchDog) check() bool {
	dog.lock.Lock()
	defer dog.lock.Unlock()

	return time.Since(dog.lastTouchAt) < dog.cfg.CheckMaxDuration
}

func (dog *watchDog) run(ctx context.Context) {
	ticker := time.NewTicker(dog.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if dog.check() {
			dog.failCount = 0
		} else {
			dog.failCount++
		}

		if dog.failCount >= dog.cfg.CheckFailCount {
			dog.notify()

			dog.failCount = 0
			dog.Touch()
		}
	}
}
