package catalog

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageRequest is a validated page/limit pair, both >= 1.
type PageRequest struct {
	page  int
	limit int
}

func (r PageRequest) Page() int {
	return r.page
}

func (r PageRequest) Limit() int {
	return r.limit
}

// BuildPageRequest applies the defaults for zero values (page 1, limit 10)
// and rejects negative values with ErrInvalidPagination.
func BuildPageRequest(page, limit int) (PageRequest, error) {
	if page < 0 || limit < 0 {
		return PageRequest{}, ErrInvalidPagination
	}

	if page == 0 {
		page = DefaultPage
	}

	if limit == 0 {
		limit = DefaultLimit
	}

	return PageRequest{page: page, limit: limit}, nil
}

// Page is one slice of a completely materialized, ordered result set.
type Page[T any] struct {
	Items      []T
	TotalCount int
	Page       int
	Limit      int
	TotalPages int
}

// Paginate slices items by [(page-1)*limit, page*limit).
// TotalPages is ceil(TotalCount/limit); a page beyond the last yields an empty Items slice, not an error.
func Paginate[T any](items []T, request PageRequest) Page[T] {
	if request.limit < 1 || request.page < 1 {
		request, _ = BuildPageRequest(request.page, request.limit)
	}

	totalCount := len(items)
	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount-1)/request.limit + 1
	}

	pageItems := make([]T, 0)
	if request.page <= totalPages {
		start := (request.page - 1) * request.limit
		end := totalCount
		if request.limit < totalCount-start {
			end = start + request.limit
		}

		pageItems = append(pageItems, items[start:end]...)
	}

	return Page[T]{
		Items:      pageItems,
		TotalCount: totalCount,
		Page:       request.page,
		Limit:      request.limit,
		TotalPages: totalPages,
	}
}
