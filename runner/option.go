package runner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sgostarter/i/l"
)

type Options struct {
	logger     l.Wrapper
	registry   prometheus.Registerer
	cacheTTL   time.Duration
	maxPoints  int
	stallAfter time.Duration
}

type Option func(o *Options)

func optionNew(option ...Option) *Options {
	opts := &Options{}
	for _, o := range option {
		o(opts)
	}

	if opts.logger == nil {
		opts.logger = l.NewNopLoggerWrapper()
	}

	return opts
}

func WithLogger(logger l.Wrapper) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

func WithMetrics(registry prometheus.Registerer) Option {
	return func(o *Options) {
		o.registry = registry
	}
}

// WithCache remembers evaluated points for ttl so repeated points are not evaluated again.
func WithCache(ttl time.Duration) Option {
	return func(o *Options) {
		o.cacheTTL = ttl
	}
}

// WithMaxPoints stops a run after n points whatever its goal says.
func WithMaxPoints(n int) Option {
	return func(o *Options) {
		o.maxPoints = n
	}
}

// WithStallTimeout fails a run with ErrStalled when no point has been fed back for d.
func WithStallTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.stallAfter = d
	}
}
