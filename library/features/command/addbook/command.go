package addbook

import (
	"time"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	commandType = "AddBook"
)

// Command represents the intent of an administrator to add a book to the catalog.
type Command struct {
	Caller     catalog.Principal
	Fields     catalog.BookFields
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(caller catalog.Principal, fields catalog.BookFields, occurredAt time.Time) Command {
	return Command{
		Caller:     caller,
		Fields:     fields,
		OccurredAt: occurredAt.UTC(),
	}
}
