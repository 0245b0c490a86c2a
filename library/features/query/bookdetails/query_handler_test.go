package bookdetails_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/features/query/bookdetails"
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_QueryHandler_Handle(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	handler := bookdetails.NewQueryHandler(store)

	t.Run("available book", func(t *testing.T) {
		// arrange
		fields := FixtureBookFields(2)
		bookID := GivenBookInCatalog(t, ctx, store, fields)

		// act
		result, err := handler.Handle(ctx, bookdetails.BuildQuery(bookID))

		// assert
		require.NoError(t, err)
		assert.Equal(t, bookID, result.ID)
		assert.Equal(t, fields.Title, result.Title)
		assert.Equal(t, fields.Author, result.Author)
		assert.Equal(t, fields.Genre, result.Genre)
		assert.Equal(t, fields.PublicationYear, result.PublicationYear)
		assert.Equal(t, fields.Description, result.Description)
		assert.Equal(t, fields.CoverRef, result.CoverRef)
		assert.Equal(t, 2, result.Quantity)
		assert.True(t, result.Available)
	})

	t.Run("out of stock book", func(t *testing.T) {
		// arrange
		bookID := GivenBookInCatalog(t, ctx, store, FixtureBookFields(0))

		// act
		result, err := handler.Handle(ctx, bookdetails.BuildQuery(bookID))

		// assert
		require.NoError(t, err)
		assert.False(t, result.Available)
	})

	t.Run("unknown book", func(t *testing.T) {
		// act
		_, err := handler.Handle(ctx, bookdetails.BuildQuery(GivenUniqueID(t)))

		// assert
		assert.ErrorIs(t, err, catalog.ErrBookNotFound)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}
