package restockbook

import (
	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// Decide implements the business logic to determine whether copies may be added.
//
// Business Rules:
//
//	WHEN: RestockBook command is received
//	THEN: the available quantity grows by Copies
//	ERROR: catalog.ErrForbidden if the caller is no admin
//	ERROR: catalog.ErrInvalidQuantityChange if Copies is less than one
func Decide(command Command) error {
	if err := catalog.RequireAdmin(command.Caller); err != nil {
		return err
	}

	if command.Copies < 1 {
		return catalog.ErrInvalidQuantityChange
	}

	return nil
}
