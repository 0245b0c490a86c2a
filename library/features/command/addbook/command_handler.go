package addbook

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell"
)

// Store defines the interface needed by the CommandHandler for storage operations.
type Store interface {
	WithinTransaction(ctx context.Context, fn catalog.TxFunc) error
}

// CommandHandler orchestrates the complete command processing workflow: Decide → Create → Append event.
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
// The result carries the new book id and its initial quantity.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var bookID uuid.UUID

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		bookID, execErr = h.executeCommand(retryCtx, command)

		return execErr
	})

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics, bookID, command.Fields.Quantity), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (uuid.UUID, error) {
	if err := Decide(command); err != nil {
		return uuid.Nil, err
	}

	var bookID uuid.UUID

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
		var err error

		bookID, err = tx.CreateBook(ctx, command.Fields)
		if err != nil {
			return err
		}

		event, err := catalog.BuildBookAdded(bookID, command.Fields, command.OccurredAt)
		if err != nil {
			return err
		}

		return tx.AppendEvent(ctx, event)
	})

	return bookID, err
}
