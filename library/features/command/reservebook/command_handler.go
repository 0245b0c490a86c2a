package reservebook

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell"
)

// Store defines the interface needed by the CommandHandler for storage operations.
type Store interface {
	WithinTransaction(ctx context.Context, fn catalog.TxFunc) error
}

// CommandHandler orchestrates the complete command processing workflow.
// It handles only business logic: Lock → Decide → Decrement → Insert → Append event.
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
// carrying the new reservation id and the remaining quantity.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var reservation catalog.Reservation
	var quantityAfter int

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		reservation, quantityAfter, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics, reservation.ID, quantityAfter), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (catalog.Reservation, int, error) {
	var reservation catalog.Reservation
	var quantityAfter int

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
		book, err := tx.GetBookForUpdate(ctx, command.BookID)
		if err != nil {
			return err
		}

		if decideErr := Decide(book, command); decideErr != nil {
			return decideErr
		}

		quantityAfter, err = tx.AdjustQuantity(ctx, command.BookID, -1)
		if err != nil {
			if errors.Is(err, catalog.ErrConstraintViolation) {
				return fmt.Errorf("%w: lost the race for the last copy", catalog.ErrOutOfStock)
			}

			return err
		}

		reservation, err = tx.InsertReservation(ctx, command.UserID, command.BookID)
		if err != nil {
			return err
		}

		event, err := catalog.BuildBookReserved(reservation, quantityAfter)
		if err != nil {
			return err
		}

		return tx.AppendEvent(ctx, event)
	})

	return reservation, quantityAfter, err
}
