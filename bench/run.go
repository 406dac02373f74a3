package bench

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libadaptive/average"
	"github.com/sgostarter/libadaptive/balancing"
	"github.com/sgostarter/libadaptive/learner"
	"github.com/sgostarter/libadaptive/learner1d"
	"github.com/sgostarter/libadaptive/learner2d"
	"github.com/sgostarter/libadaptive/runner"
	"github.com/spf13/cast"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

type Report struct {
	ID      string        `json:"id"`
	Learner string        `json:"learner"`
	Points  int           `json:"points"`
	Loss    string        `json:"loss"`
	Elapsed time.Duration `json:"elapsed"`
	At      int64         `json:"at"`
}

func (r Report) LossValue() float64 {
	return cast.ToFloat64(r.Loss)
}

// Run samples the benchmark function of the configured learner until cfg.Points points are known.
func Run(ctx context.Context, cfg Config, logger l.Wrapper) (report Report, err error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if err = cfg.Validate(); err != nil {
		return
	}

	bounds, err := cfg.ParseBounds()
	if err != nil {
		return
	}

	var stats runner.Stats

	switch cfg.Learner {
	case Learner1D:
		var lrn learner1d.Learner

		lrn, err = learner1d.New(F1D(cfg.Offset), bounds[0], bounds[1], learner1d.WithLogger(logger))
		if err == nil {
			stats, err = drive[float64](ctx, lrn, cfg, logger)
		}
	case Learner2D:
		var lrn learner2d.Learner

		lrn, err = learner2d.New(F2D, rect.Rect{LLx: bounds[0], URx: bounds[1], LLy: bounds[2], URy: bounds[3]},
			learner2d.WithMinResolution(cfg.MinResolution),
			learner2d.WithRand(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))), // nolint: gosec
			learner2d.WithLogger(logger))
		if err == nil {
			stats, err = drive[vec.Vec2](ctx, lrn, cfg, logger)
		}
	case LearnerBalancing:
		var lrn balancing.Learner[float64]

		lrn, err = newBalancing(cfg, bounds, logger)
		if err == nil {
			stats, err = drive[balancing.Point[float64]](ctx, lrn, cfg, logger)
		}
	case LearnerAverage:
		var lrn average.Learner

		lrn, err = average.New(Noise(cfg.Seed), average.WithAtol(cfg.Atol), average.WithLogger(logger))
		if err == nil {
			stats, err = drive[int](ctx, lrn, cfg, logger)
		}
	default:
		err = commerr.ErrInvalidArgument
	}

	if err != nil {
		return
	}

	report = Report{
		ID:      strconv.FormatUint(stats.ID, 36),
		Learner: cfg.Learner,
		Points:  stats.Points,
		Loss:    cast.ToString(stats.Loss),
		Elapsed: stats.Elapsed,
		At:      time.Now().Unix(),
	}

	return
}

func newBalancing(cfg Config, bounds []float64, logger l.Wrapper) (balancing.Learner[float64], error) {
	children := make([]learner.Learner[float64], cfg.Children)

	for idx := range children {
		offset := cfg.Offset
		if cfg.Children > 1 {
			offset = -0.5 + float64(idx)/float64(cfg.Children-1)
		}

		child, err := learner1d.New(F1D(offset), bounds[0], bounds[1], learner1d.WithLogger(logger))
		if err != nil {
			return nil, err
		}

		children[idx] = child
	}

	return balancing.NewLearner(children, logger)
}

func drive[X any](ctx context.Context, lrn learner.Learner[X], cfg Config, logger l.Wrapper) (runner.Stats, error) {
	return runner.New(lrn, runner.WithLogger(logger), runner.WithStallTimeout(cfg.StallTimeout)).
		Run(ctx, runner.NPointsGoal(cfg.Points))
}
