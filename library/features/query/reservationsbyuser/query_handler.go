package reservationsbyuser

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	ListReservationsByUser(ctx context.Context, userID uuid.UUID) ([]catalog.ReservationView, error)
}

// QueryHandler loads the reservations of a user from the Reservation Ledger.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler with the provided Store dependency.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{
		store: store,
	}
}

// Handle executes the query. An unknown user simply has no reservations.
func (h QueryHandler) Handle(ctx context.Context, query Query) (UserReservations, error) {
	reservations, err := h.store.ListReservationsByUser(ctx, query.UserID)
	if err != nil {
		return UserReservations{}, err
	}

	return ProjectUserReservations(query.UserID, reservations), nil
}

// ProjectUserReservations builds the query result from the reservations as listed by the ledger.
func ProjectUserReservations(userID uuid.UUID, reservations []catalog.ReservationView) UserReservations {
	if reservations == nil {
		reservations = make([]catalog.ReservationView, 0)
	}

	active := 0
	for _, reservation := range reservations {
		if reservation.IsActive() {
			active++
		}
	}

	return UserReservations{
		UserID:       userID,
		Reservations: reservations,
		Count:        len(reservations),
		ActiveCount:  active,
	}
}
