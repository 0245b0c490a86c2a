package reservebook

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// Decide implements the business logic to determine whether a copy of the book may be reserved.
// It is a pure function: it takes the current (locked) book and the command and returns nil
// if the reservation should be written.
//
// Business Rules:
//
//	GIVEN: A book with BookID and an authenticated user with UserID
//	WHEN: ReserveBook command is received
//	THEN: one copy is taken from the available quantity and an active reservation is created
//	ERROR: catalog.ErrForbidden if the caller is not authenticated
//	ERROR: catalog.ErrOutOfStock if no copy is available
func Decide(book catalog.Book, command Command) error {
	if command.UserID == uuid.Nil {
		return catalog.ErrForbidden
	}

	if !book.IsAvailable() {
		return catalog.ErrOutOfStock
	}

	return nil
}
