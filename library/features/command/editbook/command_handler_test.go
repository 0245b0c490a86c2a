package editbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/features/command/editbook"
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_CommandHandler_Handle_Success_KeepsQuantity(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	recorder := NewTxEventRecorder(store)
	handler := editbook.NewCommandHandler(recorder)

	// arrange
	bookID := GivenBookInCatalog(t, ctx, store, FixtureBookFields(3))
	fields := catalog.BuildBookFields("Domain-Driven Design", "Eric Evans", "", 2003, "", "", 50)

	// act
	result, err := handler.Handle(ctx, editbook.BuildCommand(GivenAdmin(t), bookID, fields, time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, result.Quantity)

	book, err := store.GetBook(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, "Domain-Driven Design", book.Title)
	assert.Equal(t, "Eric Evans", book.Author)
	assert.Empty(t, book.Genre, "cleared optional fields are stored as absent")
	assert.Empty(t, book.CoverRef)
	assert.Equal(t, 3, book.Quantity, "editing must not touch the quantity")
	assert.Equal(t, []string{catalog.BookUpdatedEventType}, recorder.RecordedEventTypes())
}

func Test_CommandHandler_Handle_BookNotFound(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	handler := editbook.NewCommandHandler(wrapper.GetStore())

	// act
	_, err := handler.Handle(ctx, editbook.BuildCommand(GivenAdmin(t), GivenUniqueID(t), FixtureBookFields(0), time.Now()))

	// assert
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}
