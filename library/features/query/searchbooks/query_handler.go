package searchbooks

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	ListBooks(ctx context.Context) ([]catalog.Book, error)
}

// QueryHandler orchestrates the query processing workflow: Load → Filter → Paginate.
type QueryHandler struct {
	store Store
	cache *expirable.LRU[string, []catalog.Book]
}

// Option configures a QueryHandler.
type Option func(*QueryHandler)

// WithResultCache caches the filtered result of up to size distinct filters for ttl.
// Catalog changes become visible to cached searches after at most ttl.
func WithResultCache(size int, ttl time.Duration) Option {
	return func(h *QueryHandler) {
		if size < 1 || ttl <= 0 {
			return
		}

		h.cache = expirable.NewLRU[string, []catalog.Book](size, nil, ttl)
	}
}

// NewQueryHandler creates a new QueryHandler with the provided Store dependency.
func NewQueryHandler(store Store, opts ...Option) QueryHandler {
	handler := QueryHandler{
		store: store,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the query processing workflow.
func (h QueryHandler) Handle(ctx context.Context, query Query) (SearchResult, error) {
	matching, err := h.matchingBooks(ctx, query.Filter)
	if err != nil {
		return SearchResult{}, err
	}

	return ProjectSearchResult(matching, query), nil
}

func (h QueryHandler) matchingBooks(ctx context.Context, filter catalog.SearchFilter) ([]catalog.Book, error) {
	if h.cache != nil {
		if cached, ok := h.cache.Get(filter.Key()); ok {
			return cached, nil
		}
	}

	books, err := h.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	matching := MatchingBooks(books, filter)

	if h.cache != nil {
		h.cache.Add(filter.Key(), matching)
	}

	return matching, nil
}
