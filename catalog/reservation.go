package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is the state of a reservation. Canceled is terminal.
type ReservationStatus string

const (
	StatusActive   ReservationStatus = "active"
	StatusCanceled ReservationStatus = "canceled"
)

// Reservation holds one unit of a book's stock while it is active.
type Reservation struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	BookID          uuid.UUID
	ReservationDate time.Time
	Status          ReservationStatus
}

// ReservationView is a Reservation joined with display fields of its user and book.
// Username is only filled in the administrative listing.
type ReservationView struct {
	Reservation
	Username   string
	BookTitle  string
	BookAuthor string
}

// IsActive reports whether the reservation still holds a copy.
func (r Reservation) IsActive() bool {
	return r.Status == StatusActive
}

// ValidateTransition checks a status change against the state machine: active -> canceled only.
func ValidateTransition(current, next ReservationStatus) error {
	if current != StatusActive || next != StatusCanceled {
		return ErrInvalidTransition
	}

	return nil
}

// ParseReservationStatus maps a persisted status value back to a ReservationStatus.
func ParseReservationStatus(value string) (ReservationStatus, bool) {
	switch ReservationStatus(value) {
	case StatusActive:
		return StatusActive, true
	case StatusCanceled:
		return StatusCanceled, true
	default:
		return "", false
	}
}
