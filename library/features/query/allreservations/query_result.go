package allreservations

import (
	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// Reservations represents the query result containing all reservations.
type Reservations struct {
	Reservations []catalog.ReservationView
	Count        int
}
