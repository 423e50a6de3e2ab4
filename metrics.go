package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vgebrev/leagr-sub000/balancer"
)

type metrics struct {
	generations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	fallbacks   prometheus.Counter
	score       prometheus.Histogram
	waiting     prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leagr",
			Name:      "team_generations_total",
			Help:      "Team generation requests by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leagr",
			Name:      "team_generation_seconds",
			Help:      "Time spent generating teams.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"method"}),
		fallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: "leagr",
			Name:      "team_generation_fallbacks_total",
			Help:      "Generations that could not satisfy the hard constraints.",
		}),
		score: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leagr",
			Name:      "team_generation_score",
			Help:      "Final balance score of seeded generations, lower is better.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		waiting: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leagr",
			Name:      "team_generation_waiting_players",
			Help:      "Players left on the waiting list per generation.",
			Buckets:   prometheus.LinearBuckets(0, 2, 8),
		}),
	}
}

func (m *metrics) observe(method balancer.Method, seconds float64, res *balancer.Result, err error) {
	outcome := "ok"
	switch {
	case err != nil && isConfigError(err):
		outcome = "invalid"
	case err != nil:
		outcome = "failed"
	case res.Fallback:
		outcome = "fallback"
	}
	m.generations.WithLabelValues(string(method), outcome).Inc()
	m.duration.WithLabelValues(string(method)).Observe(seconds)
	if err != nil {
		return
	}
	if res.Fallback {
		m.fallbacks.Inc()
	}
	if method == balancer.MethodSeeded {
		m.score.Observe(res.Score.Total)
	}
	m.waiting.Observe(float64(len(res.Waiting)))
}
