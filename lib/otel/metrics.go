package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// StatusMetrics holds metrics for host status queries.
type StatusMetrics struct {
	QueryDuration    metric.Float64Histogram
	DeploymentsTotal metric.Int64Counter
	tracer           trace.Tracer
}

// NewStatusMetrics creates metrics for host status queries. tracer may be nil.
func NewStatusMetrics(meter metric.Meter, tracer trace.Tracer) (*StatusMetrics, error) {
	queryDuration, err := meter.Float64Histogram(
		"bootc_status_query_duration_seconds",
		metric.WithDescription("Time to compute host status"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	deploymentsTotal, err := meter.Int64Counter(
		"bootc_status_deployments_total",
		metric.WithDescription("Total number of deployments observed by role"),
	)
	if err != nil {
		return nil, err
	}

	return &StatusMetrics{
		QueryDuration:    queryDuration,
		DeploymentsTotal: deploymentsTotal,
		tracer:           tracer,
	}, nil
}

// StartSpan starts a span named name when a tracer is configured. Without one
// it returns ctx unchanged and the span already in it.
func (m *StatusMetrics) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if m == nil || m.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return m.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordQuery records the duration of a status query started at start.
func (m *StatusMetrics) RecordQuery(ctx context.Context, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.QueryDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("result", result)))
}

// RecordDeployments adds n deployments observed in role.
func (m *StatusMetrics) RecordDeployments(ctx context.Context, role string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.DeploymentsTotal.Add(ctx, int64(n), metric.WithAttributes(attribute.String("role", role)))
}
