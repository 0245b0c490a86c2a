package restockbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/features/command/restockbook"
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	recorder := NewTxEventRecorder(store)
	handler := restockbook.NewCommandHandler(recorder)

	// arrange
	bookID := GivenBookInCatalog(t, ctx, store, FixtureBookFields(0))

	// act
	result, err := handler.Handle(ctx, restockbook.BuildCommand(GivenAdmin(t), bookID, 5, time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 5, result.Quantity)
	AssertBookQuantity(t, ctx, store, bookID, 5)

	events := recorder.RecordedEvents()
	require.Len(t, events, 1)

	var payload catalog.BookRestocked
	require.NoError(t, events[0].UnmarshalPayload(&payload))
	assert.Equal(t, 5, payload.Copies)
	assert.Equal(t, 5, payload.QuantityAfter)
}

func Test_CommandHandler_Handle_BookNotFound(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	handler := restockbook.NewCommandHandler(wrapper.GetStore())

	// act
	_, err := handler.Handle(ctx, restockbook.BuildCommand(GivenAdmin(t), GivenUniqueID(t), 1, time.Now()))

	// assert
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}
