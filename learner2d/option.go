package learner2d

import (
	"math/rand/v2"

	"github.com/sgostarter/i/l"
)

const defaultMinResolution = 2

type Options struct {
	minResolution int
	rnd           *rand.Rand
	logger        l.Wrapper
}

type Option func(o *Options)

func optionNew(option ...Option) *Options {
	opts := &Options{
		minResolution: defaultMinResolution,
	}

	for _, o := range option {
		o(opts)
	}

	if opts.rnd == nil {
		opts.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) // nolint: gosec
	}

	if opts.logger == nil {
		opts.logger = l.NewNopLoggerWrapper()
	}

	return opts
}

func WithMinResolution(k int) Option {
	return func(o *Options) {
		o.minResolution = k
	}
}

// WithRand sets the generator for the placeholder values of pending points.
func WithRand(rnd *rand.Rand) Option {
	return func(o *Options) {
		o.rnd = rnd
	}
}

func WithLogger(logger l.Wrapper) Option {
	return func(o *Options) {
		o.logger = logger
	}
}
