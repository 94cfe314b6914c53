package observability

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestHeaderCarrier_SetGetKeys(t *testing.T) {
	headers := []kafka.Header{{Key: "seed-run-id", Value: []byte("run-1")}}
	c := NewHeaderCarrier(&headers)

	c.Set("traceparent", "00-abc-01")
	c.Set("seed-run-id", "run-2")

	assert.Equal(t, "00-abc-01", c.Get("traceparent"))
	assert.Equal(t, "run-2", c.Get("seed-run-id"))
	assert.Equal(t, "", c.Get("missing"))
	assert.ElementsMatch(t, []string{"seed-run-id", "traceparent"}, c.Keys())
	assert.Len(t, headers, 2)
}

func TestInjectHeaders_PropagatesSpanContext(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	headers := InjectHeaders(ctx, nil)

	extracted := propagation.TraceContext{}.Extract(context.Background(), NewHeaderCarrier(&headers))
	assert.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(extracted).TraceID())
}

func TestInit_DisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
