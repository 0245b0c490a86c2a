package shell

import (
	"time"

	"github.com/google/uuid"
)

// HandlerResult represents the outcome of a command handler execution.
// It captures the business outcome (which resource was touched, the resulting quantity) and
// execution metadata (retry information) without coupling the handler to observability implementations.
type HandlerResult struct {
	// ResourceID is the id of the created or changed resource, e.g. the new reservation.
	ResourceID uuid.UUID

	// Quantity is the number of available copies of the affected book after the command, if any.
	Quantity int

	// RetryAttempts is the total number of attempts made (1 for no retries, 2+ for retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in retry backoff delays.
	TotalRetryDelay time.Duration

	// LastErrorType describes the type of the final error encountered during retries.
	// Values: "none" (success) or one of the labels of catalog.ErrorType.
	LastErrorType string

	// RetriesExhausted indicates whether max retry attempts were reached with a retryable error.
	RetriesExhausted bool
}

// NewSuccessResult creates a HandlerResult for successful operations.
func NewSuccessResult(retryMetrics RetryMetrics, resourceID uuid.UUID, quantity int) HandlerResult {
	return HandlerResult{
		ResourceID:       resourceID,
		Quantity:         quantity,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// NewErrorResult creates a HandlerResult for failed operations.
// This is used when the handler returns an error but still wants to report retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
