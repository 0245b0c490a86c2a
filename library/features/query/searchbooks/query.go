package searchbooks

import (
	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	queryType = "SearchBooks"
)

// Query represents the intent to search the catalog.
type Query struct {
	Filter      catalog.SearchFilter
	PageRequest catalog.PageRequest
}

// BuildQuery creates a new Query. Zero page and limit fall back to the defaults,
// negative values yield catalog.ErrInvalidPagination.
func BuildQuery(filter catalog.SearchFilter, page, limit int) (Query, error) {
	pageRequest, err := catalog.BuildPageRequest(page, limit)
	if err != nil {
		return Query{}, err
	}

	return Query{
		Filter:      filter,
		PageRequest: pageRequest,
	}, nil
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
