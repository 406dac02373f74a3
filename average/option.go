package average

import (
	"math"

	"github.com/sgostarter/i/l"
)

type Options struct {
	atol   float64
	rtol   float64
	logger l.Wrapper
}

type Option func(o *Options)

func optionNew(option ...Option) *Options {
	opts := &Options{
		atol: math.NaN(),
		rtol: math.NaN(),
	}

	for _, o := range option {
		o(opts)
	}

	if opts.logger == nil {
		opts.logger = l.NewNopLoggerWrapper()
	}

	return opts
}

// WithAtol sets the absolute tolerance on the standard error of the mean.
func WithAtol(atol float64) Option {
	return func(o *Options) {
		o.atol = atol
	}
}

// WithRtol sets the tolerance on the standard error relative to the mean.
func WithRtol(rtol float64) Option {
	return func(o *Options) {
		o.rtol = rtol
	}
}

func WithLogger(logger l.Wrapper) Option {
	return func(o *Options) {
		o.logger = logger
	}
}
