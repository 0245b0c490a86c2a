package postgresengine

import (
	"regexp"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

var plainIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithBooksTableName sets the table name for books.
func WithBooksTableName(tableName string) Option {
	return func(s *Store) error {
		return setTableName(&s.tables.books, tableName)
	}
}

// WithReservationsTableName sets the table name for reservations.
func WithReservationsTableName(tableName string) Option {
	return func(s *Store) error {
		return setTableName(&s.tables.reservations, tableName)
	}
}

// WithUsersTableName sets the table name for the user display directory.
func WithUsersTableName(tableName string) Option {
	return func(s *Store) error {
		return setTableName(&s.tables.users, tableName)
	}
}

// WithEventsTableName sets the table name for the outbox.
func WithEventsTableName(tableName string) Option {
	return func(s *Store) error {
		return setTableName(&s.tables.events, tableName)
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Operation outcomes like created reservations and quantity changes (production-safe)
// Warn level: Non-critical issues like rollback or cleanup failures
// Error level: Failures that abort an operation.
func WithLogger(logger catalog.Logger) Option {
	return func(s *Store) error {
		s.instrumentation.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// It takes precedence over the logger set with WithLogger and receives trace correlation through the context.
func WithContextualLogger(logger catalog.ContextualLogger) Option {
	return func(s *Store) error {
		s.instrumentation.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// It receives operation durations and calls, database errors, out-of-stock rejections and quantities.
func WithMetrics(collector catalog.MetricsCollector) Option {
	return func(s *Store) error {
		s.instrumentation.MetricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
// One span is created per store operation and per transaction.
func WithTracing(collector catalog.TracingCollector) Option {
	return func(s *Store) error {
		s.instrumentation.TracingCollector = collector
		return nil
	}
}

func setTableName(target *string, tableName string) error {
	if tableName == "" {
		return catalog.ErrEmptyTableName
	}

	if !plainIdentifier.MatchString(tableName) {
		return catalog.ErrInvalidTableName
	}

	*target = tableName

	return nil
}
