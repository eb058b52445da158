package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics mirrors the platform and usage metrics onto an OpenTelemetry meter
// so they reach the OTLP collector alongside traces.
type OTelMetrics struct {
	platformCalls    metric.Int64Counter
	platformDuration metric.Float64Histogram
	usageEvents      metric.Int64Counter
}

// NewOTelMetrics creates the instruments on meter.
func NewOTelMetrics(meter metric.Meter) (*OTelMetrics, error) {
	platformCalls, err := meter.Int64Counter(
		"novabill.platform.calls",
		metric.WithDescription("Calls to the billing platform"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform call counter: %w", err)
	}

	platformDuration, err := meter.Float64Histogram(
		"novabill.platform.call.duration",
		metric.WithDescription("Billing platform call duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform duration histogram: %w", err)
	}

	usageEvents, err := meter.Int64Counter(
		"novabill.usage.events",
		metric.WithDescription("Usage events by tier and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create usage event counter: %w", err)
	}

	return &OTelMetrics{
		platformCalls:    platformCalls,
		platformDuration: platformDuration,
		usageEvents:      usageEvents,
	}, nil
}

func (m *OTelMetrics) recordPlatformCall(operation string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	ctx := context.Background()
	m.platformCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.platformDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

func (m *OTelMetrics) recordUsageEvent(tier, outcome string) {
	m.usageEvents.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("tier", tier),
		attribute.String("outcome", outcome),
	))
}
