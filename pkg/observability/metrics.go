package observability

import (
	"context"
	"net/http"

	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "codmetric"

// Metrics holds the bot's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RuleMatches     *prometheus.CounterVec
	Evaluations     *prometheus.CounterVec
	DispatchSeconds prometheus.Histogram
	TranscriptSaves *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors, plus the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RuleMatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rule_matches_total",
				Help:      "Total number of replies, by the rule that produced them",
			},
			[]string{"rule"},
		),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Total number of math evaluation attempts, by outcome",
			},
			[]string{"outcome"},
		),
		DispatchSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Time spent choosing and producing a reply",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
		),
		TranscriptSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transcript_saves_total",
				Help:      "Total number of transcript save attempts, by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.RuleMatches,
		m.Evaluations,
		m.DispatchSeconds,
		m.TranscriptSaves,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks records rule matches and evaluation outcomes.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnRuleMatch: func(_ context.Context, e *domain.RuleEvent) {
			m.RuleMatches.WithLabelValues(e.Rule).Inc()
			m.DispatchSeconds.Observe(e.Took.Seconds())
		},
		OnEvaluate: func(_ context.Context, e *domain.EvalEvent) {
			m.Evaluations.WithLabelValues(string(e.Outcome)).Inc()
		},
	}
}

// ObserveSave records the result of a transcript save ("saved", "empty" or "failed").
func (m *Metrics) ObserveSave(result string) {
	m.TranscriptSaves.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
