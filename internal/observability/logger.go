package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var Logger = zap.NewNop()

func InitLogger() error {
	var err error

	Logger, err = zap.NewProduction()
	if err != nil {
		return err
	}

	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger carrying the calculator session id
// and, when a span is active in ctx, its trace_id and span_id.
//
// ctx itself is attached as a zap.Any("context", ctx) field: the otelzap
// bridge picks up any field holding a context.Context and emits the record
// with it, so exported OTLP logs carry the native TraceID/SpanID and can be
// correlated with traces. The string fields keep stdout JSON greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	logger := Logger
	if id := SessionIDFromContext(ctx); id != "" {
		logger = logger.With(zap.String("session_id", id))
	}

	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return logger
	}

	return logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
