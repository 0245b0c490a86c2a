package removebook

import (
	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// state is the current state of the book loaded inside the transaction.
type state struct {
	bookExists         bool
	activeReservations int
}

// Decide implements the business logic to determine whether the book may be removed.
//
// Business Rules:
//
//	WHEN: RemoveBook command is received
//	THEN: the book is deleted from the catalog
//	ERROR: catalog.ErrForbidden if the caller is no admin
//	ERROR: catalog.ErrBookNotFound if the book does not exist
//	ERROR: catalog.ErrBookHasActiveReservations if at least one reservation is still active
func Decide(s state, command Command) error {
	if err := catalog.RequireAdmin(command.Caller); err != nil {
		return err
	}

	if !s.bookExists {
		return catalog.ErrBookNotFound
	}

	if s.activeReservations > 0 {
		return catalog.ErrBookHasActiveReservations
	}

	return nil
}
