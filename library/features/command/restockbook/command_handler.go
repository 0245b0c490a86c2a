package restockbook

import (
	"context"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell"
)

// Store defines the interface needed by the CommandHandler for storage operations.
type Store interface {
	WithinTransaction(ctx context.Context, fn catalog.TxFunc) error
}

// CommandHandler orchestrates the complete command processing workflow: Decide → Increment → Append event.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler with the provided Store dependency.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{
		store: store,
	}
}

// Handle executes the complete command processing workflow.
// The result carries the book id and its available quantity after restocking.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var quantityAfter int

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		quantityAfter, execErr = h.executeCommand(retryCtx, command)

		return execErr
	})

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics, command.BookID, quantityAfter), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (int, error) {
	if err := Decide(command); err != nil {
		return 0, err
	}

	var quantityAfter int

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
		var err error

		quantityAfter, err = tx.AdjustQuantity(ctx, command.BookID, command.Copies)
		if err != nil {
			return err
		}

		event, err := catalog.BuildBookRestocked(command.BookID, command.Copies, quantityAfter, command.OccurredAt)
		if err != nil {
			return err
		}

		return tx.AppendEvent(ctx, event)
	})

	return quantityAfter, err
}
