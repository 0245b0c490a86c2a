package reservationsbyuser

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// UserReservations represents the query result containing the reservations of a user.
type UserReservations struct {
	UserID       uuid.UUID
	Reservations []catalog.ReservationView
	Count        int
	ActiveCount  int
}
