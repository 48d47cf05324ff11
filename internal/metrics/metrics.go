package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "persona"

// Batch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics tracks upstream AI calls and persona generation.
type Metrics struct {
	UpstreamCalls     prometheus.Counter
	UpstreamErrors    prometheus.Counter
	UpstreamLatency   prometheus.Histogram
	Batches           *prometheus.CounterVec
	PersonasGenerated prometheus.Counter
}

// New registers all instruments on reg. Passing a fresh prometheus.Registry
// keeps tests independent of the global default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UpstreamCalls: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_calls_total",
			Help:      "Calls made to the AI completion service.",
		}),
		UpstreamErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "AI completion calls that returned an error.",
		}),
		UpstreamLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_latency_seconds",
			Help:      "Latency of AI completion calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}),
		Batches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_batches_total",
			Help:      "Generation batches by outcome.",
		}, []string{"outcome"}),
		PersonasGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "personas_generated_total",
			Help:      "Personas produced by the AI generator.",
		}),
	}
}

// RecordUpstreamCall records one AI completion call.
func (m *Metrics) RecordUpstreamCall(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.UpstreamCalls.Inc()
	m.UpstreamLatency.Observe(duration.Seconds())
	if err != nil {
		m.UpstreamErrors.Inc()
	}
}

// RecordBatch records the outcome of one generation batch.
func (m *Metrics) RecordBatch(produced int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Batches.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	m.Batches.WithLabelValues(OutcomeSuccess).Inc()
	m.PersonasGenerated.Add(float64(produced))
}

// Handler serves the exposition format for the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
