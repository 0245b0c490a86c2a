package searchbooks

import (
	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// SearchResult is one page of matching books plus the totals of the whole result set.
type SearchResult struct {
	Books      []catalog.Book
	TotalCount int
	Page       int
	Limit      int
	TotalPages int
}
