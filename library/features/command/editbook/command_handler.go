package editbook

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell"
)

// Store defines the interface needed by the CommandHandler for storage operations.
type Store interface {
	WithinTransaction(ctx context.Context, fn catalog.TxFunc) error
}

// CommandHandler orchestrates the complete command processing workflow: Lock → Decide → Update → Append event.
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
// The result carries the book id and its (unchanged) available quantity.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var quantity int

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		quantity, execErr = h.executeCommand(retryCtx, command)

		return execErr
	})

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics, command.BookID, quantity), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (int, error) {
	var quantity int

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
		book, err := tx.GetBookForUpdate(ctx, command.BookID)
		if err != nil && !errors.Is(err, catalog.ErrBookNotFound) {
			return err
		}

		if decideErr := Decide(state{bookExists: err == nil}, command); decideErr != nil {
			return decideErr
		}

		if updateErr := tx.UpdateBook(ctx, command.BookID, command.Fields); updateErr != nil {
			return updateErr
		}

		quantity = book.Quantity

		event, err := catalog.BuildBookUpdated(command.BookID, command.Fields, command.OccurredAt)
		if err != nil {
			return err
		}

		return tx.AppendEvent(ctx, event)
	})

	return quantity, err
}
