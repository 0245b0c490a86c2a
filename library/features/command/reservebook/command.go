package reservebook

import (
	"github.com/google/uuid"
)

const (
	commandType = "ReserveBook"
)

// Command represents the intent of a user to reserve one copy of a book.
type Command struct {
	UserID uuid.UUID
	BookID uuid.UUID
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(userID uuid.UUID, bookID uuid.UUID) Command {
	return Command{
		UserID: userID,
		BookID: bookID,
	}
}
