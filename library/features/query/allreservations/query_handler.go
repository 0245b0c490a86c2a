package allreservations

import (
	"context"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	ListAllReservations(ctx context.Context) ([]catalog.ReservationView, error)
}

// QueryHandler authorizes the caller and loads all reservations.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler with the provided Store dependency.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{
		store: store,
	}
}

// Handle returns catalog.ErrForbidden unless the caller is an administrator.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Reservations, error) {
	if err := catalog.RequireAdmin(query.Caller); err != nil {
		return Reservations{}, err
	}

	reservations, err := h.store.ListAllReservations(ctx)
	if err != nil {
		return Reservations{}, err
	}

	if reservations == nil {
		reservations = make([]catalog.ReservationView, 0)
	}

	return Reservations{
		Reservations: reservations,
		Count:        len(reservations),
	}, nil
}
