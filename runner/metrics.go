package runner

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	evaluations prometheus.Counter
	cacheHits   prometheus.Counter
	points      prometheus.Gauge
	loss        prometheus.Gauge
}

func newMetrics(registry prometheus.Registerer) *metrics {
	if registry == nil {
		return nil
	}

	return &metrics{
		evaluations: register(registry, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adaptive_runner_evaluations_total",
			Help: "Total function evaluations performed by runners",
		})),
		cacheHits: register(registry, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adaptive_runner_cache_hits_total",
			Help: "Total points answered from the evaluation cache",
		})),
		points: register(registry, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "adaptive_runner_points",
			Help: "Points fed back to the learner in the current run",
		})),
		loss: register(registry, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "adaptive_runner_loss",
			Help: "Real loss of the learner after the last point",
		})),
	}
}

func register[C prometheus.Collector](registry prometheus.Registerer, c C) C {
	if err := registry.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}

	return c
}

func (m *metrics) observe(s Stats, evaluated, hit bool) {
	if m == nil {
		return
	}

	if evaluated {
		m.evaluations.Inc()
	}

	if hit {
		m.cacheHits.Inc()
	}

	m.points.Set(float64(s.Points))
	m.loss.Set(s.Loss)
}
