package cancelreservation

import (
	"context"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell"
)

// Store defines the interface needed by the CommandHandler for storage operations.
type Store interface {
	WithinTransaction(ctx context.Context, fn catalog.TxFunc) error
}

// CommandHandler orchestrates the complete command processing workflow.
// It handles only business logic: Lock → Decide → Cancel → Increment → Append event.
// All observability concerns are handled by the external observable wrapper.
type CommandHandler struct {
	store        Store
	retryOptions []shell.RetryOption
}

// Option configures the CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions overrides the default retry behavior for transient storage contention.
func WithRetryOptions(options ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = options
	}
}

// NewCommandHandler creates a new CommandHandler with the provided Store dependency.
func NewCommandHandler(store Store, options ...Option) CommandHandler {
	handler := CommandHandler{
		store: store,
	}

	for _, option := range options {
		option(&handler)
	}

	return handler
}

// Handle executes the complete command processing workflow in one transaction.
// It retries on transient storage contention and returns an explicit HandlerResult
// carrying the reservation id and the book's quantity after the copy was returned.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var quantityAfter int

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		quantityAfter, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics, command.ReservationID, quantityAfter), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (int, error) {
	var quantityAfter int

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
		reservation, err := tx.GetReservation(ctx, command.ReservationID)
		if err != nil {
			return err
		}

		if decideErr := Decide(reservation, command); decideErr != nil {
			return decideErr
		}

		if statusErr := tx.SetReservationStatus(ctx, reservation.ID, catalog.StatusCanceled); statusErr != nil {
			return statusErr
		}

		quantityAfter, err = tx.AdjustQuantity(ctx, reservation.BookID, +1)
		if err != nil {
			return err
		}

		reservation.Status = catalog.StatusCanceled

		event, err := catalog.BuildReservationCanceled(reservation, command.Caller, quantityAfter, command.OccurredAt)
		if err != nil {
			return err
		}

		return tx.AppendEvent(ctx, event)
	})

	return quantityAfter, err
}
