package otel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStatusMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewStatusMetrics(provider.Meter(MeterName), nil)
	require.NoError(t, err)

	m.RecordQuery(ctx, time.Now().Add(-time.Second), nil)
	m.RecordQuery(ctx, time.Now(), errors.New("boom"))
	m.RecordDeployments(ctx, "rollback", 1)
	m.RecordDeployments(ctx, "other", 3)
	m.RecordDeployments(ctx, "staged", 0)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, metric := range rm.ScopeMetrics[0].Metrics {
		byName[metric.Name] = metric
	}

	hist, ok := byName["bootc_status_query_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)

	sum, ok := byName["bootc_status_deployments_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(4), total)
	assert.Len(t, sum.DataPoints, 2)
}

func TestNilStatusMetrics(t *testing.T) {
	var m *StatusMetrics
	assert.NotPanics(t, func() {
		m.RecordQuery(context.Background(), time.Now(), nil)
		m.RecordDeployments(context.Background(), "other", 2)
		ctx, span := m.StartSpan(context.Background(), "noop")
		span.End()
		assert.NotNil(t, ctx)
	})
}

func TestDisabledMeterProvider(t *testing.T) {
	provider, shutdown, err := NewMeterProvider(context.Background(), Config{})
	require.NoError(t, err)

	_, err = NewStatusMetrics(provider.Meter(MeterName), nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestStatusMetricsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	mp := sdkmetric.NewMeterProvider()

	m, err := NewStatusMetrics(mp.Meter(MeterName), tp.Tracer(MeterName))
	require.NoError(t, err)

	ctx, parent := m.StartSpan(context.Background(), "GetStatus")
	_, child := m.StartSpan(ctx, "BootEntryFromDeployment", attribute.String("role", "booted"))
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "BootEntryFromDeployment", spans[0].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Contains(t, spans[0].Attributes(), attribute.String("role", "booted"))
}

func TestDisabledTracerProvider(t *testing.T) {
	provider, shutdown, err := NewTracerProvider(context.Background(), Config{})
	require.NoError(t, err)

	_, span := provider.Tracer(MeterName).Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, shutdown(context.Background()))
}
