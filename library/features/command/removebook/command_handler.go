package removebook

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

// CommandHandler orchestrates the complete command processing workflow:
// Lock book → Count active reservations → Decide → Delete → Append event.
// Locking the book serializes the removal with concurrent reservations of the same book.
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
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.executeCommand(retryCtx, command)
	})

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics, command.BookID, 0), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) error {
	return h.store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
		s, err := loadState(ctx, tx, command)
		if err != nil {
			return err
		}

		if decideErr := Decide(s, command); decideErr != nil {
			return decideErr
		}

		if deleteErr := tx.DeleteBook(ctx, command.BookID); deleteErr != nil {
			return deleteErr
		}

		event, err := catalog.BuildBookRemoved(command.BookID, command.OccurredAt)
		if err != nil {
			return err
		}

		return tx.AppendEvent(ctx, event)
	})
}

func loadState(ctx context.Context, tx catalog.Tx, command Command) (state, error) {
	_, err := tx.GetBookForUpdate(ctx, command.BookID)
	if errors.Is(err, catalog.ErrBookNotFound) {
		return state{}, nil
	}

	if err != nil {
		return state{}, err
	}

	active, err := tx.CountActiveReservations(ctx, command.BookID)
	if err != nil {
		return state{}, err
	}

	return state{bookExists: true, activeReservations: active}, nil
}
