package instrument

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	MetricOperationDuration = "catalog_operation_duration_seconds"
	MetricOperationCalls    = "catalog_operation_calls_total"
	MetricDatabaseErrors    = "catalog_database_errors_total"
	MetricOutOfStock        = "catalog_out_of_stock_total"
	MetricQuantity          = "catalog_book_quantity"

	StatusSuccess  = "success"
	StatusError    = "error"
	StatusRejected = "rejected"

	AttrOperation  = "operation"
	AttrStatus     = "status"
	AttrErrorType  = "error_type"
	AttrEngine     = "engine"
	AttrDurationMS = "duration_ms"
	AttrQuery      = "query"
	AttrError      = "error"

	logMsgSQLExecuted = "executed sql for: "
	logMsgOperation   = "catalog operation: "
	spanNamePrefix    = "catalog."
)

// Instrumentation bundles the optional observability collaborators of a storage engine.
type Instrumentation struct {
	Engine           string
	Logger           catalog.Logger
	ContextualLogger catalog.ContextualLogger
	MetricsCollector catalog.MetricsCollector
	TracingCollector catalog.TracingCollector
}

// LogSQL logs an executed statement with its duration at debug level.
func (in *Instrumentation) LogSQL(ctx context.Context, action string, sqlQuery string, duration time.Duration) {
	args := []any{AttrDurationMS, ToMilliseconds(duration), AttrQuery, sqlQuery}

	if in.ContextualLogger != nil {
		in.ContextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	} else if in.Logger != nil {
		in.Logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

// LogOperation logs an operation outcome at info level.
func (in *Instrumentation) LogOperation(ctx context.Context, action string, args ...any) {
	if in.ContextualLogger != nil {
		in.ContextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	} else if in.Logger != nil {
		in.Logger.Info(logMsgOperation+action, args...)
	}
}

// LogWarning logs a non-critical problem, e.g. a failed rollback or close.
func (in *Instrumentation) LogWarning(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{AttrError, err.Error()}, args...)

	if in.ContextualLogger != nil {
		in.ContextualLogger.WarnContext(ctx, message, allArgs...)
	} else if in.Logger != nil {
		in.Logger.Warn(message, allArgs...)
	}
}

// LogError logs a failure that aborts the current operation.
func (in *Instrumentation) LogError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{AttrError, err.Error()}, args...)

	if in.ContextualLogger != nil {
		in.ContextualLogger.ErrorContext(ctx, message, allArgs...)
	} else if in.Logger != nil {
		in.Logger.Error(message, allArgs...)
	}
}

// LogStatementError logs a failed statement with its SQL at error level.
// Failures caused by a canceled or expired context are not logged.
func (in *Instrumentation) LogStatementError(ctx context.Context, message string, err error, sqlQuery string) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}

	in.LogError(ctx, message, err, AttrQuery, sqlQuery)
}

// RecordOutOfStock counts a rejected quantity adjustment.
func (in *Instrumentation) RecordOutOfStock(ctx context.Context, operation string) {
	in.incrementCounter(ctx, MetricOutOfStock, map[string]string{
		AttrOperation: operation,
		AttrEngine:    in.Engine,
	})
}

// RecordQuantity records the quantity of a book after a change.
func (in *Instrumentation) RecordQuantity(ctx context.Context, operation string, quantity int) {
	if in.MetricsCollector == nil {
		return
	}

	labels := map[string]string{AttrOperation: operation, AttrEngine: in.Engine}

	if contextualCollector, ok := in.MetricsCollector.(catalog.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, MetricQuantity, float64(quantity), labels)
		return
	}

	in.MetricsCollector.RecordValue(MetricQuantity, float64(quantity), labels)
}

// Observation tracks one storage operation for metrics and tracing.
type Observation struct {
	in        *Instrumentation
	ctx       context.Context
	operation string
	span      catalog.SpanContext
	start     time.Time
}

// Start begins observing an operation and returns the context carrying the span, if any.
func (in *Instrumentation) Start(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (*Observation, context.Context) {
	spanAttrs := map[string]string{
		AttrOperation: operation,
		AttrEngine:    in.Engine,
	}
	for key, value := range attrs {
		spanAttrs[key] = value
	}

	var span catalog.SpanContext
	if in.TracingCollector != nil {
		ctx, span = in.TracingCollector.StartSpan(ctx, spanNamePrefix+operation, spanAttrs)
	}

	return &Observation{
		in:        in,
		ctx:       ctx,
		operation: operation,
		span:      span,
		start:     time.Now(),
	}, ctx
}

// Finish records duration, call count, error count and closes the span.
// Business rule outcomes are recorded with status "rejected", not as database errors.
func (o *Observation) Finish(err error) {
	duration := time.Since(o.start)
	status := StatusSuccess

	switch {
	case err == nil:
	case catalog.IsBusinessRuleViolation(err), errors.Is(err, catalog.ErrConstraintViolation):
		status = StatusRejected
	default:
		status = StatusError
	}

	labels := map[string]string{
		AttrOperation: o.operation,
		AttrStatus:    status,
		AttrEngine:    o.in.Engine,
	}

	o.in.recordDuration(o.ctx, MetricOperationDuration, duration, labels)
	o.in.incrementCounter(o.ctx, MetricOperationCalls, labels)

	spanAttrs := map[string]string{AttrDurationMS: fmt.Sprintf("%.3f", ToMilliseconds(duration))}

	if err != nil {
		errorType := catalog.ErrorType(err)
		spanAttrs[AttrErrorType] = errorType

		if status == StatusError {
			o.in.incrementCounter(o.ctx, MetricDatabaseErrors, map[string]string{
				AttrOperation: o.operation,
				AttrErrorType: errorType,
				AttrEngine:    o.in.Engine,
			})
		}
	}

	if o.span != nil && o.in.TracingCollector != nil {
		o.in.TracingCollector.FinishSpan(o.span, status, spanAttrs)
	}
}

func (in *Instrumentation) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if in.MetricsCollector == nil {
		return
	}

	if contextualCollector, ok := in.MetricsCollector.(catalog.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	in.MetricsCollector.RecordDuration(metric, duration, labels)
}

func (in *Instrumentation) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if in.MetricsCollector == nil {
		return
	}

	if contextualCollector, ok := in.MetricsCollector.(catalog.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	in.MetricsCollector.IncrementCounter(metric, labels)
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
