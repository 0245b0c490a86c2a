package searchbooks

import (
	"slices"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// MatchingBooks filters the books and orders them by id, the order pagination relies on.
// A filter without criteria matches the whole catalog.
func MatchingBooks(books []catalog.Book, filter catalog.SearchFilter) []catalog.Book {
	if filter.IsEmpty() {
		matching := slices.Clone(books)
		catalog.SortBooksByID(matching)

		return matching
	}

	return catalog.FilterBooks(books, filter)
}

// ProjectSearchResult slices the already filtered and ordered books into the requested page.
// A page beyond the last one yields no books but still reports the totals.
func ProjectSearchResult(matching []catalog.Book, query Query) SearchResult {
	page := catalog.Paginate(matching, query.PageRequest)

	return SearchResult{
		Books:      page.Items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
}
