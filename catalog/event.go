package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const (
	BookAddedEventType           = "BookAdded"
	BookUpdatedEventType         = "BookUpdated"
	BookRemovedEventType         = "BookRemoved"
	BookRestockedEventType       = "BookRestocked"
	BookReservedEventType        = "BookReserved"
	ReservationCanceledEventType = "ReservationCanceled"
)

var ErrMarshalingEventPayloadFailed = errors.New("marshaling event payload failed")

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// DomainEvent is an outbox record, written in the same transaction as the state change it describes.
type DomainEvent struct {
	ID          uuid.UUID
	EventType   string
	AggregateID uuid.UUID
	OccurredAt  time.Time
	Payload     []byte
}

// BookAdded is the payload of BookAddedEventType.
type BookAdded struct {
	BookID          string `json:"bookId"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre,omitempty"`
	PublicationYear uint   `json:"publicationYear,omitempty"`
	Quantity        int    `json:"quantity"`
}

// BookUpdated is the payload of BookUpdatedEventType.
type BookUpdated struct {
	BookID          string `json:"bookId"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre,omitempty"`
	PublicationYear uint   `json:"publicationYear,omitempty"`
}

// BookRemoved is the payload of BookRemovedEventType.
type BookRemoved struct {
	BookID string `json:"bookId"`
}

// BookRestocked is the payload of BookRestockedEventType.
type BookRestocked struct {
	BookID        string `json:"bookId"`
	Copies        int    `json:"copies"`
	QuantityAfter int    `json:"quantityAfter"`
}

// BookReserved is the payload of BookReservedEventType.
type BookReserved struct {
	ReservationID string `json:"reservationId"`
	UserID        string `json:"userId"`
	BookID        string `json:"bookId"`
	QuantityAfter int    `json:"quantityAfter"`
}

// ReservationCanceled is the payload of ReservationCanceledEventType.
type ReservationCanceled struct {
	ReservationID string `json:"reservationId"`
	UserID        string `json:"userId"`
	BookID        string `json:"bookId"`
	CanceledBy    string `json:"canceledBy"`
	QuantityAfter int    `json:"quantityAfter"`
}

// NewDomainEvent marshals payload and assigns a time-ordered event id.
func NewDomainEvent(eventType string, aggregateID uuid.UUID, payload any, occurredAt time.Time) (DomainEvent, error) {
	payloadJSON, err := jsonAPI.Marshal(payload)
	if err != nil {
		return DomainEvent{}, errors.Join(ErrMarshalingEventPayloadFailed, err)
	}

	eventID, err := uuid.NewV7()
	if err != nil {
		return DomainEvent{}, err
	}

	return DomainEvent{
		ID:          eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  occurredAt.UTC(),
		Payload:     payloadJSON,
	}, nil
}

// UnmarshalPayload decodes the event payload into target.
func (e DomainEvent) UnmarshalPayload(target any) error {
	return jsonAPI.Unmarshal(e.Payload, target)
}

func BuildBookAdded(bookID uuid.UUID, fields BookFields, occurredAt time.Time) (DomainEvent, error) {
	return NewDomainEvent(BookAddedEventType, bookID, BookAdded{
		BookID:          bookID.String(),
		Title:           fields.Title,
		Author:          fields.Author,
		Genre:           fields.Genre,
		PublicationYear: fields.PublicationYear,
		Quantity:        fields.Quantity,
	}, occurredAt)
}

func BuildBookUpdated(bookID uuid.UUID, fields BookFields, occurredAt time.Time) (DomainEvent, error) {
	return NewDomainEvent(BookUpdatedEventType, bookID, BookUpdated{
		BookID:          bookID.String(),
		Title:           fields.Title,
		Author:          fields.Author,
		Genre:           fields.Genre,
		PublicationYear: fields.PublicationYear,
	}, occurredAt)
}

func BuildBookRemoved(bookID uuid.UUID, occurredAt time.Time) (DomainEvent, error) {
	return NewDomainEvent(BookRemovedEventType, bookID, BookRemoved{BookID: bookID.String()}, occurredAt)
}

func BuildBookRestocked(bookID uuid.UUID, copies int, quantityAfter int, occurredAt time.Time) (DomainEvent, error) {
	return NewDomainEvent(BookRestockedEventType, bookID, BookRestocked{
		BookID:        bookID.String(),
		Copies:        copies,
		QuantityAfter: quantityAfter,
	}, occurredAt)
}

func BuildBookReserved(reservation Reservation, quantityAfter int) (DomainEvent, error) {
	return NewDomainEvent(BookReservedEventType, reservation.ID, BookReserved{
		ReservationID: reservation.ID.String(),
		UserID:        reservation.UserID.String(),
		BookID:        reservation.BookID.String(),
		QuantityAfter: quantityAfter,
	}, reservation.ReservationDate)
}

func BuildReservationCanceled(
	reservation Reservation,
	canceledBy Principal,
	quantityAfter int,
	occurredAt time.Time,
) (DomainEvent, error) {
	return NewDomainEvent(ReservationCanceledEventType, reservation.ID, ReservationCanceled{
		ReservationID: reservation.ID.String(),
		UserID:        reservation.UserID.String(),
		BookID:        reservation.BookID.String(),
		CanceledBy:    canceledBy.UserID.String(),
		QuantityAfter: quantityAfter,
	}, occurredAt)
}
