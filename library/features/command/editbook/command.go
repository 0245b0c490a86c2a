package editbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	commandType = "EditBook"
)

// Command represents the intent of an administrator to change a book's descriptive fields.
// Fields.Quantity is ignored.
type Command struct {
	Caller     catalog.Principal
	BookID     uuid.UUID
	Fields     catalog.BookFields
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(caller catalog.Principal, bookID uuid.UUID, fields catalog.BookFields, occurredAt time.Time) Command {
	fields.Quantity = 0

	return Command{
		Caller:     caller,
		BookID:     bookID,
		Fields:     fields,
		OccurredAt: occurredAt.UTC(),
	}
}
