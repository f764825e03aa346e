package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetrics_Search(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveSearch(OutcomeOK, "hybrid", 0.02)
	m.ObserveSearch(OutcomeOK, "exact", 0.01)
	m.ObserveSearch(OutcomeNotReady, "", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.searches.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searches.WithLabelValues(OutcomeNotReady)))
}

func TestMetrics_Build(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveBuild(12, 0.5, nil)
	m.ObserveBuild(0, 0, errors.New("encoder down"))

	assert.Equal(t, 12.0, testutil.ToFloat64(m.indexSize))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.buildFailures))
}

func TestMetrics_SetIndexSize(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.SetIndexSize(7)

	assert.Equal(t, 7.0, testutil.ToFloat64(m.indexSize))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.buildFailures))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveSearch(OutcomeOK, "exact", 1)
		m.ObserveBuild(1, 1, nil)
		m.SetIndexSize(1)
		m.EncoderFailure("query")
	})
}

func TestNewLogger(t *testing.T) {
	for _, json := range []bool{true, false} {
		logger, err := NewLogger(json, true)
		assert.NoError(t, err)
		assert.NotNil(t, logger)
		assert.NotPanics(t, func() {
			logger.Info("index built", zap.Duration("elapsed", 1500*time.Millisecond))
		})
	}
}
