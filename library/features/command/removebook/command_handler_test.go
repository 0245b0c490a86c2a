package removebook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-reservations-go/library/features/command/removebook"
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_CommandHandler_Handle_RefusedWhileReservationsAreActive(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	handler := removebook.NewCommandHandler(store)

	// arrange
	admin := GivenAdmin(t)
	bookID := GivenBookInCatalog(t, ctx, store, FixtureBookFields(2))
	GivenActiveReservation(t, ctx, store, GivenUniqueID(t), bookID)

	// act
	_, err := handler.Handle(ctx, removebook.BuildCommand(admin, bookID, time.Now()))

	// assert
	assert.ErrorIs(t, err, catalog.ErrBookHasActiveReservations)
	AssertBookQuantity(t, ctx, store, bookID, 1)
}

func Test_CommandHandler_Handle_AllowedWhenOnlyCanceledReservationsExist(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	recorder := NewTxEventRecorder(store)
	handler := removebook.NewCommandHandler(recorder)

	// arrange
	admin := GivenAdmin(t)
	owner := GivenUser(t)
	bookID := GivenBookInCatalog(t, ctx, store, FixtureBookFields(1))
	reservation := GivenActiveReservation(t, ctx, store, owner.UserID, bookID)

	_, err := cancelreservation.NewCommandHandler(store).
		Handle(ctx, cancelreservation.BuildCommand(reservation.ID, owner, time.Now()))
	require.NoError(t, err)

	// act
	_, err = handler.Handle(ctx, removebook.BuildCommand(admin, bookID, time.Now()))

	// assert
	require.NoError(t, err)

	_, err = store.GetBook(ctx, bookID)
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)

	history, err := store.ListReservationsByUser(ctx, owner.UserID)
	require.NoError(t, err)
	require.Len(t, history, 1, "the canceled reservation stays in the ledger")
	assert.Equal(t, catalog.StatusCanceled, history[0].Status)
	assert.Empty(t, history[0].BookTitle)

	assert.Equal(t, []string{catalog.BookRemovedEventType}, recorder.RecordedEventTypes())
}

func Test_CommandHandler_Handle_BookNotFound(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	handler := removebook.NewCommandHandler(wrapper.GetStore())

	// act
	_, err := handler.Handle(ctx, removebook.BuildCommand(GivenAdmin(t), GivenUniqueID(t), time.Now()))

	// assert
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}
