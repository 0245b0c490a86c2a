package restockbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	commandType = "RestockBook"
)

// Command represents the intent of an administrator to add copies of a book.
type Command struct {
	Caller     catalog.Principal
	BookID     uuid.UUID
	Copies     int
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(caller catalog.Principal, bookID uuid.UUID, copies int, occurredAt time.Time) Command {
	return Command{
		Caller:     caller,
		BookID:     bookID,
		Copies:     copies,
		OccurredAt: occurredAt.UTC(),
	}
}
