package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes recorded by Metrics.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotReady = "not_ready"
	OutcomeError    = "error"
)

// Metrics holds the ranker's Prometheus collectors.
type Metrics struct {
	searches        *prometheus.CounterVec
	searchDuration  *prometheus.HistogramVec
	indexSize       prometheus.Gauge
	buildDuration   prometheus.Histogram
	buildFailures   prometheus.Counter
	encoderFailures *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. A nil reg uses the default
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranker_searches_total",
				Help: "Total number of searches by outcome",
			},
			[]string{"outcome"},
		),
		searchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ranker_search_duration_seconds",
				Help:    "Duration of searches",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		indexSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ranker_index_profiles",
			Help: "Number of profiles in the active index",
		}),
		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ranker_index_build_duration_seconds",
			Help:    "Duration of full index builds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		buildFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ranker_index_build_failures_total",
			Help: "Total number of failed index builds",
		}),
		encoderFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranker_encoder_failures_total",
				Help: "Total number of encoder failures by stage",
			},
			[]string{"stage"}, // stage: build, query, explain
		),
	}
}

// ObserveSearch records one search.
func (m *Metrics) ObserveSearch(outcome, method string, seconds float64) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.searchDuration.WithLabelValues(method).Observe(seconds)
	}
}

// ObserveBuild records one index build.
func (m *Metrics) ObserveBuild(size int, seconds float64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.buildFailures.Inc()
		return
	}
	m.indexSize.Set(float64(size))
	m.buildDuration.Observe(seconds)
}

// SetIndexSize reports the active index size without recording a build, as
// when an index is restored from a snapshot.
func (m *Metrics) SetIndexSize(size int) {
	if m == nil {
		return
	}
	m.indexSize.Set(float64(size))
}

// EncoderFailure counts one encoder failure at stage.
func (m *Metrics) EncoderFailure(stage string) {
	if m == nil {
		return
	}
	m.encoderFailures.WithLabelValues(stage).Inc()
}
