package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/godruoyi/go-snowflake"
	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libadaptive/learner"
	"github.com/sgostarter/libeasygo/routineman"
)

var (
	ErrStalled   = errors.New("run stalled")
	ErrExhausted = fmt.Errorf("learner proposed no points: %w", commerr.ErrResourceExhausted)
)

type Stats struct {
	ID          uint64
	Points      int
	Evaluations int
	CacheHits   int
	Loss        float64
	Elapsed     time.Duration
}

// Runner drives a learner sequentially: choose one point, evaluate it, feed the value back.
type Runner[X any] struct {
	logger l.Wrapper

	learner    learner.Learner[X]
	maxPoints  int
	stallAfter time.Duration
	cached     *cache.Cache
	metrics    *metrics

	routineMan routineman.RoutineMan

	statsLock sync.RWMutex
	stats     Stats
	err       error
}

func New[X any](lrn learner.Learner[X], opts ...Option) *Runner[X] {
	options := optionNew(opts...)

	if lrn == nil {
		options.logger.Fatal("no learner")
	}

	r := &Runner[X]{
		logger:     options.logger.WithFields(l.StringField(l.ClsKey, "Runner")),
		learner:    lrn,
		maxPoints:  options.maxPoints,
		stallAfter: options.stallAfter,
		metrics:    newMetrics(options.registry),
		routineMan: routineman.NewRoutineMan(context.Background(), options.logger),
	}

	if options.cacheTTL > 0 {
		r.cached = cache.New(options.cacheTTL, options.cacheTTL*2)
	}

	return r
}

func (r *Runner[X]) Stats() Stats {
	r.statsLock.RLock()
	defer r.statsLock.RUnlock()

	return r.stats
}

// Err returns the result of the last run started with Start.
func (r *Runner[X]) Err() error {
	r.statsLock.RLock()
	defer r.statsLock.RUnlock()

	return r.err
}

func (r *Runner[X]) Start(goal Goal) {
	r.routineMan.StartRoutine(func(ctx context.Context, _ func() bool) {
		_, err := r.Run(ctx, goal)

		r.statsLock.Lock()
		r.err = err
		r.statsLock.Unlock()
	}, "runRoutine")
}

func (r *Runner[X]) TriggerStop() {
	r.routineMan.TriggerStop()
}

func (r *Runner[X]) Wait() {
	r.routineMan.Wait()
}

func (r *Runner[X]) Run(ctx context.Context, goal Goal) (stats Stats, err error) {
	if goal == nil {
		err = fmt.Errorf("no goal: %w", commerr.ErrInvalidArgument)

		return
	}

	start := time.Now()

	stats = Stats{
		ID:   snowflake.ID(),
		Loss: r.learner.Loss(true),
	}
	r.setStats(stats)

	logger := r.logger.WithFields(l.UInt64Field("runID", stats.ID))
	logger.Debug("run started")

	touch := func() {}

	if r.stallAfter > 0 {
		var cancel context.CancelCauseFunc

		ctx, cancel = context.WithCancelCause(ctx)
		defer cancel(nil)

		dog := newWatchDog(watchDogConfig{CheckMaxDuration: r.stallAfter}, func() {
			logger.WithFields(l.IntField("points", r.Stats().Points)).Error("no point fed back in time")
			cancel(ErrStalled)
		})
		touch = dog.Touch

		go dog.run(ctx)
	}

	for !goal(stats) {
		if r.maxPoints > 0 && stats.Points >= r.maxPoints {
			logger.WithFields(l.IntField("maxPoints", r.maxPoints)).Debug("max points reached")

			break
		}

		if ctx.Err() != nil {
			err = context.Cause(ctx)

			break
		}

		if err = r.step(&stats); err != nil {
			break
		}

		touch()

		stats.Elapsed = time.Since(start)
		r.setStats(stats)
	}

	stats.Elapsed = time.Since(start)
	r.setStats(stats)

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.WithFields(l.ErrorField(err), l.IntField("points", stats.Points)).Error("run failed")
	} else {
		logger.WithFields(l.IntField("points", stats.Points), l.StringField("loss", fmt.Sprint(stats.Loss))).Debug("run stopped")
	}

	return
}

func (r *Runner[X]) step(stats *Stats) error {
	points, _, err := r.learner.ChoosePoints(1, true)
	if err != nil {
		return fmt.Errorf("choose points: %w", err)
	}

	if len(points) == 0 {
		return ErrExhausted
	}

	for _, x := range points {
		y, hit := r.evaluate(x)

		if err = r.learner.AddPoint(x, learner.Real(y)); err != nil {
			return fmt.Errorf("add point: %w", err)
		}

		stats.Points++

		if hit {
			stats.CacheHits++
		} else {
			stats.Evaluations++
		}

		stats.Loss = r.learner.Loss(true)

		r.metrics.observe(*stats, !hit, hit)
	}

	return nil
}

func (r *Runner[X]) evaluate(x X) (y float64, hit bool) {
	if r.cached == nil {
		y = r.learner.Function()(x)

		return
	}

	key := fmt.Sprint(x)

	if i, ok := r.cached.Get(key); ok {
		if y, hit = i.(float64); hit {
			return
		}
	}

	y = r.learner.Function()(x)
	r.cached.SetDefault(key, y)

	return
}

func (r *Runner[X]) setStats(stats Stats) {
	r.statsLock.Lock()
	defer r.statsLock.Unlock()

	r.stats = stats
}
