package editbook

import (
	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// state is the current state of the book loaded inside the transaction.
type state struct {
	bookExists bool
}

// Decide implements the business logic to determine whether the book may be edited.
//
// Business Rules:
//
//	WHEN: EditBook command is received
//	THEN: title, author, genre, publication year, description and cover are replaced
//	ERROR: catalog.ErrForbidden if the caller is no admin (checked first, so no existence is leaked)
//	ERROR: catalog.ErrBookNotFound if the book does not exist
//	ERROR: catalog.ErrInvalidBook if the new fields are invalid
func Decide(s state, command Command) error {
	if err := catalog.RequireAdmin(command.Caller); err != nil {
		return err
	}

	if !s.bookExists {
		return catalog.ErrBookNotFound
	}

	return command.Fields.Validate()
}
