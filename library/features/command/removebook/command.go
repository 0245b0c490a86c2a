package removebook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	commandType = "RemoveBook"
)

// Command represents the intent of an administrator to remove a book from the catalog.
type Command struct {
	Caller     catalog.Principal
	BookID     uuid.UUID
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(caller catalog.Principal, bookID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		Caller:     caller,
		BookID:     bookID,
		OccurredAt: occurredAt.UTC(),
	}
}
