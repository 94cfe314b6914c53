package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type runIDKey struct{}

// ContextWithRunID сохраняет идентификатор запуска в ctx
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext возвращает идентификатор запуска, если он есть в ctx
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// LogFields возвращает zap-поля run_id, trace_id и span_id из контекста (только присутствующие)
func LogFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, zap.String("run_id", id))
	}

	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return fields
}

// L связывает строку лога с запуском и трейсом: observability.L(ctx, logger).Info(...)
func L(ctx context.Context, base *zap.Logger) *zap.Logger {
	fields := LogFields(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
