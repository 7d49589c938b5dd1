package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordToggle(t *testing.T) {
	before := counterValue(t, ToggleOutcomes.WithLabelValues("vote", ToggleCreated))
	RecordToggle("vote", ToggleCreated)
	assert.Equal(t, before+1, counterValue(t, ToggleOutcomes.WithLabelValues("vote", ToggleCreated)))
}

func TestRecordCache(t *testing.T) {
	before := counterValue(t, CacheResults.WithLabelValues("activity", "hit"))
	RecordCache("activity", "hit")
	assert.Equal(t, before+1, counterValue(t, CacheResults.WithLabelValues("activity", "hit")))
}

func TestDBMetricsObserve(t *testing.T) {
	DBMetrics.Observe(5*time.Millisecond, true)

	var m dto.Metric
	h, ok := DatabaseQueryLatency.WithLabelValues("error").(prometheus.Histogram)
	require.True(t, ok)
	require.NoError(t, h.Write(&m))
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))
}

func TestInitTracing(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "test", Exporter: "none"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, err = InitTracing(TracingConfig{ServiceName: "test", Exporter: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestStartSpan(t *testing.T) {
	ctx, end := StartSpan(context.Background(), "unit")
	assert.NotNil(t, ctx)
	end(errors.New("boom"))

	done := TrackFanout()
	done(nil)
}
