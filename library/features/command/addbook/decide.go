package addbook

import (
	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// Decide implements the business logic to determine whether the book may be added.
//
// Business Rules:
//
//	WHEN: AddBook command is received
//	THEN: the book is created with Fields.Quantity available copies
//	ERROR: catalog.ErrForbidden if the caller is no admin
//	ERROR: catalog.ErrInvalidBook if title or author are missing, the year is out of range or the quantity is negative
func Decide(command Command) error {
	if err := catalog.RequireAdmin(command.Caller); err != nil {
		return err
	}

	return command.Fields.Validate()
}
