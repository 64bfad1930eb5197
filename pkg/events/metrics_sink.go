package events

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricName is the counter incremented for every event.
const MetricName = "frontdoor.events"

// MetricsSink counts events with OpenTelemetry, labelled by type and reason.
type MetricsSink struct {
	counter metric.Int64Counter
}

// NewMetricsSink registers the frontdoor.events counter on meter.
func NewMetricsSink(meter metric.Meter) (*MetricsSink, error) {
	counter, err := meter.Int64Counter(
		MetricName,
		metric.WithDescription("Authentication events by type"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, errors.Join(ErrMetricsUnavailable, err)
	}
	return &MetricsSink{counter: counter}, nil
}

func (s *MetricsSink) Emit(ctx context.Context, e Event) {
	attrs := []attribute.KeyValue{attribute.String("type", string(e.Type))}
	if e.Reason != "" {
		attrs = append(attrs, attribute.String("reason", string(e.Reason)))
	}
	s.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}
