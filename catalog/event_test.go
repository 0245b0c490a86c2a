package catalog_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

func Test_NewDomainEvent_ShouldAssignTimeOrderedIDs(t *testing.T) {
	// arrange
	aggregateID := uuid.New()
	occurredAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	// act
	first, firstErr := catalog.NewDomainEvent(catalog.BookRemovedEventType, aggregateID, catalog.BookRemoved{BookID: "x"}, occurredAt)
	second, secondErr := catalog.NewDomainEvent(catalog.BookRemovedEventType, aggregateID, catalog.BookRemoved{BookID: "y"}, occurredAt)

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.Equal(t, uuid.Version(7), first.ID.Version())
	assert.Less(t, first.ID.String(), second.ID.String())
	assert.Equal(t, aggregateID, first.AggregateID)
	assert.Equal(t, time.UTC, first.OccurredAt.Location())
	assert.True(t, occurredAt.Equal(first.OccurredAt))
	assert.JSONEq(t, `{"bookId":"x"}`, string(first.Payload))
}

func Test_NewDomainEvent_ShouldFail_ForUnmarshalablePayload(t *testing.T) {
	// act
	_, err := catalog.NewDomainEvent("Broken", uuid.New(), make(chan int), time.Now())

	// assert
	assert.ErrorIs(t, err, catalog.ErrMarshalingEventPayloadFailed)
}

func Test_BuildBookReserved_ShouldUseReservationAsAggregate(t *testing.T) {
	// arrange
	reservation := catalog.Reservation{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		BookID:          uuid.New(),
		ReservationDate: time.Now().UTC(),
		Status:          catalog.StatusActive,
	}

	// act
	event, err := catalog.BuildBookReserved(reservation, 4)
	require.NoError(t, err)

	var payload catalog.BookReserved
	unmarshalErr := event.UnmarshalPayload(&payload)

	// assert
	require.NoError(t, unmarshalErr)
	assert.Equal(t, catalog.BookReservedEventType, event.EventType)
	assert.Equal(t, reservation.ID, event.AggregateID)
	assert.True(t, reservation.ReservationDate.Equal(event.OccurredAt))
	assert.Equal(t, catalog.BookReserved{
		ReservationID: reservation.ID.String(),
		UserID:        reservation.UserID.String(),
		BookID:        reservation.BookID.String(),
		QuantityAfter: 4,
	}, payload)
}

func Test_BuildReservationCanceled_ShouldRecordWhoCanceled(t *testing.T) {
	// arrange
	admin := catalog.BuildPrincipal(uuid.New(), catalog.RoleAdmin)
	reservation := catalog.Reservation{ID: uuid.New(), UserID: uuid.New(), BookID: uuid.New()}

	// act
	event, err := catalog.BuildReservationCanceled(reservation, admin, 1, time.Now())
	require.NoError(t, err)

	var payload catalog.ReservationCanceled
	unmarshalErr := event.UnmarshalPayload(&payload)

	// assert
	require.NoError(t, unmarshalErr)
	assert.Equal(t, catalog.ReservationCanceledEventType, event.EventType)
	assert.Equal(t, admin.UserID.String(), payload.CanceledBy)
	assert.Equal(t, reservation.UserID.String(), payload.UserID)
	assert.Equal(t, 1, payload.QuantityAfter)
}

func Test_BuildBookAdded_ShouldOmitAbsentOptionalFields(t *testing.T) {
	// arrange
	bookID := uuid.New()
	fields := catalog.BuildBookFields("Emma", "Jane Austen", "", 0, "ignored", "", 2)

	// act
	event, err := catalog.BuildBookAdded(bookID, fields, time.Now())

	// assert
	require.NoError(t, err)
	assert.Equal(t, bookID, event.AggregateID)
	assert.JSONEq(
		t,
		`{"bookId":"`+bookID.String()+`","title":"Emma","author":"Jane Austen","quantity":2}`,
		string(event.Payload),
	)
}
