// Package metrics holds the Prometheus collectors of the advisor.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors groups every metric the service exports.
type Collectors struct {
	Analyses     *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	Scores       *prometheus.HistogramVec
	HTTPRequests *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seo_advisor_analyses_total",
				Help: "Analyses run, by kind, depth and outcome.",
			},
			[]string{"kind", "depth", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "seo_advisor_analysis_duration_seconds",
				Help:    "Time spent analyzing one content item.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"kind", "depth"},
		),
		Scores: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "seo_advisor_score",
				Help:    "Overall scores produced by analyses.",
				Buckets: []float64{50, 70, 90, 100},
			},
			[]string{"kind"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seo_advisor_http_requests_total",
				Help: "HTTP requests served, by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(c.Analyses, c.Duration, c.Scores, c.HTTPRequests)
	return c
}

// ObserveAnalysis records one analysis. score is ignored unless outcome is "ok".
func (c *Collectors) ObserveAnalysis(kind, depth, outcome string, elapsed time.Duration, score int) {
	if c == nil {
		return
	}
	c.Analyses.WithLabelValues(kind, depth, outcome).Inc()
	c.Duration.WithLabelValues(kind, depth).Observe(elapsed.Seconds())
	if outcome == "ok" {
		c.Scores.WithLabelValues(kind).Observe(float64(score))
	}
}
