package postgresengine

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	logMsgBookCreated        = "book created"
	logMsgBookUpdated        = "book updated"
	logMsgBookDeleted        = "book deleted"
	logMsgQuantityAdjusted   = "quantity adjusted"
	logMsgReservationCreated = "reservation created"
	logMsgStatusChanged      = "reservation status changed"

	logAttrBookID        = "book_id"
	logAttrReservationID = "reservation_id"
	logAttrUserID        = "user_id"
	logAttrDelta         = "delta"
	logAttrQuantity      = "quantity"
	logAttrStatus        = "status"
)

// transaction implements catalog.Tx on an open database transaction.
type transaction struct {
	statements statements
}

func (t *transaction) GetBook(ctx context.Context, bookID uuid.UUID) (book catalog.Book, err error) {
	observation, ctx := t.statements.instrumentation.Start(ctx, operationGetBook, nil)
	defer func() { observation.Finish(err) }()

	return t.statements.getBook(ctx, bookID, false)
}

func (t *transaction) GetBookForUpdate(ctx context.Context, bookID uuid.UUID) (book catalog.Book, err error) {
	observation, ctx := t.statements.instrumentation.Start(ctx, operationGetBookForUpdate, nil)
	defer func() { observation.Finish(err) }()

	return t.statements.getBook(ctx, bookID, true)
}

func (t *transaction) CreateBook(ctx context.Context, fields catalog.BookFields) (bookID uuid.UUID, err error) {
	observation, ctx := t.statements.instrumentation.Start(ctx, operationCreateBook, nil)
	defer func() { observation.Finish(err) }()

	if bookID, err = t.statements.createBook(ctx, fields); err != nil {
		return uuid.Nil, err
	}

	t.statements.instrumentation.LogOperation(ctx, logMsgBookCreated, logAttrBookID, bookID.String())
	t.statements.instrumentation.RecordQuantity(ctx, operationCreateBook, fields.Quantity)

	return bookID, nil
}

func (t *transaction) UpdateBook(ctx context.Context, bookID uuid.UUID, fields catalog.BookFields) (err error) {
	observation, ctx := t.statements.instrumentation.Start(ctx, operationUpdateBook, nil)
	defer func() { observation.Finish(err) }()

	if err = t.statements.updateBook(ctx, bookID, fields); err != nil {
		return err
	}

	t.statements.instrumentation.LogOperation(ctx, logMsgBookUpdated, logAttrBookID, bookID.String())

	return nil
}

func (t *transaction) DeleteBook(ctx context.Context, bookID uuid.UUID) (err error) {
	observation, ctx := t.statements.instrumentation.Start(ctx, operationDeleteBook, nil)
	defer func() { observation.Finish(err) }()

	if err = t.statements.deleteBook(ctx, bookID); err != nil {
		return err
	}

	t.statements.instrumentation.LogOperation(ctx, logMsgBookDeleted, logAttrBookID, bookID.String())

	return nil
}

func (t *transaction) AdjustQuantity(ctx context.Context, bookID uuid.UUID, delta int) (quantity int, err error) {
	observation, ctx := t.statements.instrumentation.Start(
		ctx,
		operationAdjustQuantity,
		map[string]string{logAttrDelta: strconv.Itoa(delta)},
	)
	defer func() { observation.Finish(err) }()

	if quantity, err = t.statements.adjustQuantity(ctx, bookID, delta); err != nil {
		return 0, err
	}

	t.statements.instrumentation.LogOperation(
		ctx,
		logMsgQuantityAdjusted,
		logAttrBookID, bookID.String(),
		logAttrDelta, delta,
		logAttrQuantity, quantity,
	)
	t.statements.instrumentation.RecordQuantity(ctx, operationAdjustQuantity, quantity)

	return quantity, nil
}

func (t *transaction) InsertReservation(
	ctx context.Context,
	userID uuid.UUID,
	bookID uuid.UUID,
) (reservation catalog.Reservation, err error) {

	observation, ctx := t.statements.instrumentation.Start(ctx, operationInsertReservation, nil)
	defer func() { observation.Finish(err) }()

	if reservation, err = t.statements.insertReservation(ctx, userID, bookID); err != nil {
		return catalog.Reservation{}, err
	}

	t.statements.instrumentation.LogOperation(
		ctx,
		logMsgReservationCreated,
		logAttrReservationID, reservation.ID.String(),
		logAttrUserID, userID.String(),
		logAttrBookID, bookID.String(),
	)

	return reservation, nil
}

func (t *transaction) GetReservation(
	ctx context.Context,
	reservationID uuid.UUID,
) (reservation catalog.Reservation, err error) {

	observation, ctx := t.statements.instrumentation.Start(ctx, operationGetReservation, nil)
	defer func() { observation.Finish(err) }()

	return t.statements.getReservation(ctx, reservationID, true)
}

func (t *transaction) SetReservationStatus(
	ctx context.Context,
	reservationID uuid.UUID,
	next catalog.ReservationStatus,
) (err error) {

	observation, ctx := t.statements.instrumentation.Start(ctx, operationSetStatus, nil)
	defer func() { observation.Finish(err) }()

	if err = t.statements.setReservationStatus(ctx, reservationID, next); err != nil {
		return err
	}

	t.statements.instrumentation.LogOperation(
		ctx,
		logMsgStatusChanged,
		logAttrReservationID, reservationID.String(),
		logAttrStatus, string(next),
	)

	return nil
}

func (t *transaction) CountActiveReservations(ctx context.Context, bookID uuid.UUID) (count int, err error) {
	observation, ctx := t.statements.instrumentation.Start(ctx, operationCountActive, nil)
	defer func() { observation.Finish(err) }()

	return t.statements.countActiveReservations(ctx, bookID)
}

func (t *transaction) AppendEvent(ctx context.Context, event catalog.DomainEvent) (err error) {
	observation, ctx := t.statements.instrumentation.Start(ctx, operationAppendEvent, nil)
	defer func() { observation.Finish(err) }()

	return t.statements.appendEvent(ctx, event)
}
