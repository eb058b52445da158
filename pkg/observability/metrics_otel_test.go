package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestMetrics_AttachOTel(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	om, err := NewOTelMetrics(provider.Meter("novabill"))
	require.NoError(t, err)

	m := NewMetrics(prometheus.NewRegistry())
	m.AttachOTel(om)

	m.ObservePlatformCall("usage.ingest", 200, 20*time.Millisecond)
	m.ObservePlatformCall("usage.ingest", 0, time.Second)
	m.ObserveUsageEvent("ultra", "sent")

	got := collect(t, reader)

	calls, ok := got["novabill.platform.calls"].Data.(metricdata.Sum[int64])
	require.True(t, ok, "platform calls should be an int64 sum")
	statuses := map[string]int64{}
	for _, dp := range calls.DataPoints {
		status, _ := dp.Attributes.Value(attribute.Key("status"))
		statuses[status.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"200": 1, "error": 1}, statuses)

	duration, ok := got["novabill.platform.call.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok, "platform duration should be a float64 histogram")
	require.Len(t, duration.DataPoints, 1)
	assert.Equal(t, uint64(2), duration.DataPoints[0].Count)

	events, ok := got["novabill.usage.events"].Data.(metricdata.Sum[int64])
	require.True(t, ok, "usage events should be an int64 sum")
	require.Len(t, events.DataPoints, 1)
	assert.Equal(t, int64(1), events.DataPoints[0].Value)
	tier, _ := events.DataPoints[0].Attributes.Value(attribute.Key("tier"))
	assert.Equal(t, "ultra", tier.AsString())
}

func TestMetrics_AttachOTelNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AttachOTel(nil)
		m.ObserveUsageEvent("ultra", "sent")
	})
}
