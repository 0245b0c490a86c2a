package cancelreservation

import (
	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// Decide implements the business logic to determine whether a reservation may be canceled by the caller.
// It is a pure function: it takes the current (locked) reservation and the command and returns nil
// if the cancellation should be written.
//
// Business Rules:
//
//	GIVEN: A reservation with ReservationID
//	WHEN: CancelReservation command is received
//	THEN: the reservation is canceled and its copy is returned to the book
//	ERROR: catalog.ErrForbidden if the caller is neither an admin nor the owner
//	ERROR: catalog.ErrInvalidTransition if the reservation is already canceled
func Decide(reservation catalog.Reservation, command Command) error {
	if !catalog.CanCancel(command.Caller, reservation) {
		return catalog.ErrForbidden
	}

	return catalog.ValidateTransition(reservation.Status, catalog.StatusCanceled)
}
