package allreservations_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/features/query/allreservations"
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_QueryHandler_Handle_AdminSeesAllReservationsWithUsernames(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	alice := GivenUser(t)
	bob := GivenUser(t)
	require.NoError(t, store.UpsertUser(ctx, alice.UserID, "alice"))
	require.NoError(t, store.UpsertUser(ctx, bob.UserID, "bob"))

	bookID := GivenBookInCatalog(t, ctx, store, FixtureBookFields(2))
	aliceReservation := GivenActiveReservation(t, ctx, store, alice.UserID, bookID)
	bobReservation := GivenActiveReservation(t, ctx, store, bob.UserID, bookID)

	handler := allreservations.NewQueryHandler(store)

	// act
	result, err := handler.Handle(ctx, allreservations.BuildQuery(GivenAdmin(t)))

	// assert
	require.NoError(t, err)

	views := make(map[string]catalog.ReservationView, result.Count)
	for _, view := range result.Reservations {
		views[view.ID.String()] = view
	}

	require.Contains(t, views, aliceReservation.ID.String())
	require.Contains(t, views, bobReservation.ID.String())
	assert.Equal(t, "alice", views[aliceReservation.ID.String()].Username)
	assert.Equal(t, "bob", views[bobReservation.ID.String()].Username)
	assert.Equal(t, "Learning Domain-Driven Design", views[bobReservation.ID.String()].BookTitle)

	for i := 1; i < len(result.Reservations); i++ {
		assert.False(t,
			result.Reservations[i].ReservationDate.After(result.Reservations[i-1].ReservationDate),
			"reservations must be ordered newest first",
		)
	}
}

func Test_QueryHandler_Handle_UserIsForbidden(t *testing.T) {
	// arrange
	handler := allreservations.NewQueryHandler(nil)

	// act
	_, err := handler.Handle(context.Background(), allreservations.BuildQuery(GivenUser(t)))

	// assert
	assert.ErrorIs(t, err, catalog.ErrForbidden)
}
