package cancelreservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	commandType = "CancelReservation"
)

// Command represents the intent of a caller to cancel a reservation.
type Command struct {
	ReservationID uuid.UUID
	Caller        catalog.Principal
	OccurredAt    time.Time
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(reservationID uuid.UUID, caller catalog.Principal, occurredAt time.Time) Command {
	return Command{
		ReservationID: reservationID,
		Caller:        caller,
		OccurredAt:    occurredAt.UTC(),
	}
}
