package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Tx is the transactional view of the Catalog Store and the Reservation Ledger.
// All calls made through one Tx commit together or not at all.
type Tx interface {
	// GetBook returns ErrBookNotFound if the book does not exist.
	GetBook(ctx context.Context, bookID uuid.UUID) (Book, error)

	// GetBookForUpdate is GetBook plus a row lock held until the transaction ends, where the engine supports it.
	GetBookForUpdate(ctx context.Context, bookID uuid.UUID) (Book, error)

	CreateBook(ctx context.Context, fields BookFields) (uuid.UUID, error)

	// UpdateBook never changes the quantity. Returns ErrBookNotFound if the book does not exist.
	UpdateBook(ctx context.Context, bookID uuid.UUID, fields BookFields) error

	// DeleteBook returns ErrBookNotFound if the book does not exist.
	DeleteBook(ctx context.Context, bookID uuid.UUID) error

	// AdjustQuantity atomically applies delta and returns the new quantity.
	// Returns ErrBookNotFound, or ErrConstraintViolation if the result would be negative.
	AdjustQuantity(ctx context.Context, bookID uuid.UUID, delta int) (int, error)

	// InsertReservation creates an active reservation with a server-assigned id and timestamp.
	InsertReservation(ctx context.Context, userID uuid.UUID, bookID uuid.UUID) (Reservation, error)

	// GetReservation locks the reservation row until the transaction ends, where the engine supports it.
	// Returns ErrReservationNotFound if the reservation does not exist.
	GetReservation(ctx context.Context, reservationID uuid.UUID) (Reservation, error)

	// SetReservationStatus returns ErrReservationNotFound, or ErrInvalidTransition unless
	// the current status is active and next is canceled.
	SetReservationStatus(ctx context.Context, reservationID uuid.UUID, next ReservationStatus) error

	CountActiveReservations(ctx context.Context, bookID uuid.UUID) (int, error)

	// AppendEvent writes a domain event to the outbox.
	AppendEvent(ctx context.Context, event DomainEvent) error
}

// TxFunc is executed inside a transaction. Returning an error rolls the transaction back.
type TxFunc func(ctx context.Context, tx Tx) error
