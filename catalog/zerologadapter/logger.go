package zerologadapter

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	fieldTraceID = "trace_id"
	fieldSpanID  = "span_id"
)

// Logger adapts a zerolog.Logger. Args are slog-style alternating key/value pairs.
type Logger struct {
	logger zerolog.Logger
}

// New wraps the given zerolog.Logger.
func New(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.emit(context.Background(), l.logger.Debug(), msg, args)
}

func (l *Logger) Info(msg string, args ...any) {
	l.emit(context.Background(), l.logger.Info(), msg, args)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.emit(context.Background(), l.logger.Warn(), msg, args)
}

func (l *Logger) Error(msg string, args ...any) {
	l.emit(context.Background(), l.logger.Error(), msg, args)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, l.logger.Debug(), msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, l.logger.Info(), msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, l.logger.Warn(), msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, l.logger.Error(), msg, args)
}

// emit is a no-op for events disabled by the logger's level.
func (l *Logger) emit(ctx context.Context, event *zerolog.Event, msg string, args []any) {
	if event == nil {
		return
	}

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		event = event.
			Str(fieldTraceID, spanCtx.TraceID().String()).
			Str(fieldSpanID, spanCtx.SpanID().String())
	}

	event.Fields(fields(args)).Msg(msg)
}

// fields drops non-string keys and a trailing key without value.
func fields(args []any) []any {
	kvs := make([]any, 0, len(args))

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}

		kvs = append(kvs, key, args[i+1])
	}

	return kvs
}

var (
	_ catalog.Logger           = (*Logger)(nil)
	_ catalog.ContextualLogger = (*Logger)(nil)
)
