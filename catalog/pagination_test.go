package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

func Test_BuildPageRequest(t *testing.T) {
	tests := []struct {
		name          string
		page          int
		limit         int
		expectedPage  int
		expectedLimit int
		expectedErr   error
	}{
		{name: "defaults for zero values", page: 0, limit: 0, expectedPage: 1, expectedLimit: 10},
		{name: "explicit values", page: 3, limit: 25, expectedPage: 3, expectedLimit: 25},
		{name: "default limit only", page: 2, limit: 0, expectedPage: 2, expectedLimit: 10},
		{name: "negative page", page: -1, limit: 10, expectedErr: catalog.ErrInvalidPagination},
		{name: "negative limit", page: 1, limit: -5, expectedErr: catalog.ErrInvalidPagination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			request, err := catalog.BuildPageRequest(tt.page, tt.limit)

			// assert
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedPage, request.Page())
			assert.Equal(t, tt.expectedLimit, request.Limit())
		})
	}
}

func Test_Paginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i + 1
	}

	tests := []struct {
		name          string
		items         []int
		page          int
		limit         int
		expectedItems []int
		expectedTotal int
		expectedPages int
	}{
		{
			name:          "first page",
			items:         items,
			page:          1,
			limit:         10,
			expectedItems: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			expectedTotal: 25,
			expectedPages: 3,
		},
		{
			name:          "last partial page",
			items:         items,
			page:          3,
			limit:         10,
			expectedItems: []int{21, 22, 23, 24, 25},
			expectedTotal: 25,
			expectedPages: 3,
		},
		{
			name:          "page beyond the last",
			items:         items,
			page:          4,
			limit:         10,
			expectedItems: []int{},
			expectedTotal: 25,
			expectedPages: 3,
		},
		{
			name:          "exact multiple of limit",
			items:         items[:20],
			page:          2,
			limit:         10,
			expectedItems: []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
			expectedTotal: 20,
			expectedPages: 2,
		},
		{
			name:          "limit larger than result set",
			items:         items[:3],
			page:          1,
			limit:         50,
			expectedItems: []int{1, 2, 3},
			expectedTotal: 3,
			expectedPages: 1,
		},
		{
			name:          "empty result set",
			items:         nil,
			page:          1,
			limit:         10,
			expectedItems: []int{},
			expectedTotal: 0,
			expectedPages: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			request, err := catalog.BuildPageRequest(tt.page, tt.limit)
			require.NoError(t, err)

			// act
			page := catalog.Paginate(tt.items, request)

			// assert
			assert.Equal(t, tt.expectedItems, page.Items)
			assert.Equal(t, tt.expectedTotal, page.TotalCount)
			assert.Equal(t, tt.expectedPages, page.TotalPages)
			assert.Equal(t, tt.page, page.Page)
			assert.Equal(t, tt.limit, page.Limit)
		})
	}
}

func Test_Paginate_ShouldApplyDefaults_ForZeroValuePageRequest(t *testing.T) {
	// act
	page := catalog.Paginate([]string{"a", "b"}, catalog.PageRequest{})

	// assert
	assert.Equal(t, []string{"a", "b"}, page.Items)
	assert.Equal(t, catalog.DefaultPage, page.Page)
	assert.Equal(t, catalog.DefaultLimit, page.Limit)
	assert.Equal(t, 1, page.TotalPages)
}
