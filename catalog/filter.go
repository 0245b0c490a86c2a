package catalog

import (
	"fmt"
	"slices"
	"strings"
)

/***** SearchFilter *****/

// SearchFilter holds the optional catalog search criteria. Supplied criteria are combined with AND,
// absent ones impose no constraint:
//
//   - title: case-insensitive substring
//   - author: case-insensitive substring
//   - genre: case-insensitive equality
type SearchFilter struct {
	title  string
	author string
	genre  string
}

func (f SearchFilter) Title() string {
	return f.title
}

func (f SearchFilter) Author() string {
	return f.author
}

func (f SearchFilter) Genre() string {
	return f.genre
}

// IsEmpty reports whether the filter has no criteria.
func (f SearchFilter) IsEmpty() bool {
	return f.title == "" && f.author == "" && f.genre == ""
}

// Key returns a canonical representation, two filters matching the same books have the same key.
func (f SearchFilter) Key() string {
	return fmt.Sprintf("title=%q;author=%q;genre=%q", f.title, f.author, f.genre)
}

// Matches applies the filter to a single book.
func (f SearchFilter) Matches(book Book) bool {
	if f.title != "" && !strings.Contains(strings.ToLower(book.Title), f.title) {
		return false
	}

	if f.author != "" && !strings.Contains(strings.ToLower(book.Author), f.author) {
		return false
	}

	if f.genre != "" && strings.ToLower(strings.TrimSpace(book.Genre)) != f.genre {
		return false
	}

	return true
}

// FilterBooks returns the matching books in ascending id order, the order used for pagination.
func FilterBooks(books []Book, filter SearchFilter) []Book {
	matching := make([]Book, 0, len(books))

	for _, book := range books {
		if filter.Matches(book) {
			matching = append(matching, book)
		}
	}

	SortBooksByID(matching)

	return matching
}

// SortBooksByID sorts in place by ascending id.
func SortBooksByID(books []Book) {
	slices.SortStableFunc(books, func(a, b Book) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}

/***** SearchFilterBuilder *****/

// SearchFilterBuilder builds a SearchFilter.
//
// It sanitizes the input:
//   - trimming surrounding whitespace
//   - lower-casing the values
//   - treating whitespace-only values as absent
type SearchFilterBuilder interface {
	TitleContains(title string) SearchFilterBuilder
	AuthorContains(author string) SearchFilterBuilder
	GenreIs(genre string) SearchFilterBuilder
	Finalize() SearchFilter
}

type searchFilterBuilder struct {
	filter SearchFilter
}

// BuildSearchFilter starts a new SearchFilter.
func BuildSearchFilter() SearchFilterBuilder {
	return &searchFilterBuilder{}
}

// MatchingAnyBook directly creates an empty SearchFilter.
func MatchingAnyBook() SearchFilter {
	return SearchFilter{}
}

func (b *searchFilterBuilder) TitleContains(title string) SearchFilterBuilder {
	b.filter.title = sanitize(title)
	return b
}

func (b *searchFilterBuilder) AuthorContains(author string) SearchFilterBuilder {
	b.filter.author = sanitize(author)
	return b
}

func (b *searchFilterBuilder) GenreIs(genre string) SearchFilterBuilder {
	b.filter.genre = sanitize(genre)
	return b
}

func (b *searchFilterBuilder) Finalize() SearchFilter {
	return b.filter
}

func sanitize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
