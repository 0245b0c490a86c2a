package bookdetails

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	GetBook(ctx context.Context, bookID uuid.UUID) (catalog.Book, error)
}

// QueryHandler loads a single book from the Catalog Store.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler with the provided Store dependency.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{
		store: store,
	}
}

// Handle returns catalog.ErrBookNotFound if the book does not exist.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BookDetails, error) {
	book, err := h.store.GetBook(ctx, query.BookID)
	if err != nil {
		return BookDetails{}, err
	}

	return BookDetails{
		Book:      book,
		Available: book.IsAvailable(),
	}, nil
}
