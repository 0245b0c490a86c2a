package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Business rule outcomes. They are expected results returned to callers and never retried.
var (
	ErrNotFound            = errors.New("not found")
	ErrBookNotFound        = fmt.Errorf("book %w", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)
	ErrOutOfStock          = errors.New("book is out of stock")
	ErrForbidden           = errors.New("caller is not allowed to perform this operation")
	ErrInvalidTransition   = errors.New("invalid reservation status transition")

	ErrBookHasActiveReservations = errors.New("book still has active reservations")
	ErrInvalidBook               = errors.New("invalid book fields")
	ErrInvalidPagination         = errors.New("page and limit must not be negative")
	ErrInvalidQuantityChange     = errors.New("quantity change must be positive")
)

// Storage level signals.
var (
	// ErrConstraintViolation is returned when a quantity adjustment would drive the counter negative.
	ErrConstraintViolation = errors.New("quantity must not become negative")

	// ErrTransientContention marks lock timeouts, deadlocks, serialization failures and busy databases.
	// It is the only error class that command handlers retry.
	ErrTransientContention = errors.New("transient storage contention")

	// ErrStorageUnavailable is returned when the persistence layer cannot be reached.
	ErrStorageUnavailable = errors.New("storage is unavailable")

	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrEmptyTableName        = errors.New("empty table name supplied")
	ErrInvalidTableName      = errors.New("table name must be a plain SQL identifier")
	ErrTransactionFailed     = errors.New("transaction failed")
)

// IsBusinessRuleViolation reports whether err is one of the expected business outcomes
// (not found, out of stock, forbidden, invalid transition and friends).
func IsBusinessRuleViolation(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrOutOfStock),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrBookHasActiveReservations),
		errors.Is(err, ErrInvalidBook),
		errors.Is(err, ErrInvalidPagination),
		errors.Is(err, ErrInvalidQuantityChange):
		return true
	default:
		return false
	}
}

// ErrorType returns a stable, low-cardinality label for err, used in metrics and spans.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrBookHasActiveReservations):
		return "book_has_active_reservations"
	case errors.Is(err, ErrInvalidBook), errors.Is(err, ErrInvalidPagination), errors.Is(err, ErrInvalidQuantityChange):
		return "invalid_argument"
	case errors.Is(err, ErrConstraintViolation):
		return "constraint_violation"
	case errors.Is(err, ErrTransientContention):
		return "transient_contention"
	case errors.Is(err, ErrStorageUnavailable):
		return "storage_unavailable"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	default:
		return "other"
	}
}
