package shell

import (
	"context"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// Interface aliases for convenience when using handler observability.
// These match the catalog observability interfaces, so one set of adapters serves both layers.

// MetricsCollector interface for collecting handler performance metrics.
type MetricsCollector = catalog.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = catalog.ContextualMetricsCollector

// TracingCollector interface for distributed tracing in handlers.
type TracingCollector = catalog.TracingCollector

// SpanContext represents an active tracing span.
type SpanContext = catalog.SpanContext

// ContextualLogger interface for context-aware logging in handlers.
type ContextualLogger = catalog.ContextualLogger

// Logger interface for basic logging in handlers.
type Logger = catalog.Logger

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// CoreCommandHandler defines the contract for components that process commands with pure business logic.
// Handlers orchestrate the workflow: read state, Decide, write state and outbox event in one transaction.
// Observability is added by wrapping them, see the observable package.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// CoreQueryHandler defines the contract for components that process queries.
// The generic parameters Q and R ensure type safety between queries and their corresponding results.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
