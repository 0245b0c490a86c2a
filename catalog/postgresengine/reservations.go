package postgresengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	colUserID          = "user_id"
	colBookID          = "book_id"
	colReservationDate = "reservation_date"
	colStatus          = "status"
	colUsername        = "username"
)

var errScanningReservationFailed = errors.New("scanning reservation row failed")

func (st statements) insertReservation(
	ctx context.Context,
	userID uuid.UUID,
	bookID uuid.UUID,
) (catalog.Reservation, error) {

	reservationID, err := uuid.NewV7()
	if err != nil {
		return catalog.Reservation{}, err
	}

	ds := dialect().Insert(goqu.T(st.tables.reservations)).Prepared(true).
		Rows(goqu.Record{
			colID:     uuidParam(reservationID),
			colUserID: uuidParam(userID),
			colBookID: uuidParam(bookID),
			colStatus: string(catalog.StatusActive),
		}).
		Returning(goqu.C(colReservationDate))

	rows, err := st.query(ctx, operationInsertReservation, ds)
	if err != nil {
		return catalog.Reservation{}, err
	}
	defer st.closeRows(ctx, rows)

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return catalog.Reservation{}, classifyError(err)
		}

		return catalog.Reservation{}, fmt.Errorf("%w: insert returned no row", errScanningReservationFailed)
	}

	var reservationDate time.Time
	if err = rows.Scan(&reservationDate); err != nil {
		return catalog.Reservation{}, errors.Join(errScanningReservationFailed, err)
	}

	return catalog.Reservation{
		ID:              reservationID,
		UserID:          userID,
		BookID:          bookID,
		ReservationDate: reservationDate.UTC(),
		Status:          catalog.StatusActive,
	}, nil
}

func (st statements) getReservation(
	ctx context.Context,
	reservationID uuid.UUID,
	forUpdate bool,
) (catalog.Reservation, error) {

	ds := dialect().From(goqu.T(st.tables.reservations)).Prepared(true).
		Select(
			goqu.L("id::text"),
			goqu.L("user_id::text"),
			goqu.L("book_id::text"),
			goqu.C(colReservationDate),
			goqu.C(colStatus),
		).
		Where(goqu.C(colID).Eq(uuidParam(reservationID)))

	if forUpdate {
		ds = ds.ForUpdate(exp.Wait)
	}

	rows, err := st.query(ctx, operationGetReservation, ds)
	if err != nil {
		return catalog.Reservation{}, err
	}
	defer st.closeRows(ctx, rows)

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return catalog.Reservation{}, classifyError(err)
		}

		return catalog.Reservation{}, catalog.ErrReservationNotFound
	}

	var (
		ids    [3]string
		date   time.Time
		status string
	)

	if err = rows.Scan(&ids[0], &ids[1], &ids[2], &date, &status); err != nil {
		return catalog.Reservation{}, errors.Join(errScanningReservationFailed, err)
	}

	return buildReservation(ids, date, status)
}

// setReservationStatus only updates rows that are still active, so of two concurrent
// cancellations only one affects a row.
func (st statements) setReservationStatus(
	ctx context.Context,
	reservationID uuid.UUID,
	next catalog.ReservationStatus,
) error {

	if err := catalog.ValidateTransition(catalog.StatusActive, next); err != nil {
		return err
	}

	ds := dialect().Update(goqu.T(st.tables.reservations)).Prepared(true).
		Set(goqu.Record{colStatus: string(next)}).
		Where(
			goqu.C(colID).Eq(uuidParam(reservationID)),
			goqu.C(colStatus).Eq(string(catalog.StatusActive)),
		)

	rowsAffected, err := st.exec(ctx, operationSetStatus, ds)
	if err != nil {
		return err
	}

	if rowsAffected > 0 {
		return nil
	}

	current, err := st.getReservation(ctx, reservationID, false)
	if err != nil {
		return err
	}

	return catalog.ValidateTransition(current.Status, next)
}

func (st statements) countActiveReservations(ctx context.Context, bookID uuid.UUID) (int, error) {
	ds := dialect().From(goqu.T(st.tables.reservations)).Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C(colBookID).Eq(uuidParam(bookID)),
			goqu.C(colStatus).Eq(string(catalog.StatusActive)),
		)

	rows, err := st.query(ctx, operationCountActive, ds)
	if err != nil {
		return 0, err
	}
	defer st.closeRows(ctx, rows)

	var count int64
	if rows.Next() {
		if err = rows.Scan(&count); err != nil {
			return 0, errors.Join(errScanningReservationFailed, err)
		}
	}

	if err = rows.Err(); err != nil {
		return 0, classifyError(err)
	}

	return int(count), nil
}

// listReservations returns the reservations of one user, or of everybody if userID is nil.
// Reservations of removed books keep empty book fields.
func (st statements) listReservations(ctx context.Context, userID *uuid.UUID) ([]catalog.ReservationView, error) {
	ds := dialect().From(goqu.T(st.tables.reservations).As("r")).Prepared(true).
		Select(
			goqu.L("r.id::text"),
			goqu.L("r.user_id::text"),
			goqu.L("r.book_id::text"),
			goqu.I("r."+colReservationDate),
			goqu.I("r."+colStatus),
			goqu.L("COALESCE(u.username, '')"),
			goqu.L("COALESCE(b.title, '')"),
			goqu.L("COALESCE(b.author, '')"),
		).
		LeftJoin(
			goqu.T(st.tables.books).As("b"),
			goqu.On(goqu.I("b."+colID).Eq(goqu.I("r."+colBookID))),
		).
		LeftJoin(
			goqu.T(st.tables.users).As("u"),
			goqu.On(goqu.I("u."+colID).Eq(goqu.I("r."+colUserID))),
		).
		Order(goqu.I("r."+colReservationDate).Desc(), goqu.I("r."+colID).Desc())

	action := operationListAll
	if userID != nil {
		ds = ds.Where(goqu.I("r." + colUserID).Eq(uuidParam(*userID)))
		action = operationListByUser
	}

	rows, err := st.query(ctx, action, ds)
	if err != nil {
		return nil, err
	}
	defer st.closeRows(ctx, rows)

	views := make([]catalog.ReservationView, 0)
	for rows.Next() {
		var (
			ids    [3]string
			date   time.Time
			status string
			view   catalog.ReservationView
		)

		if err = rows.Scan(
			&ids[0], &ids[1], &ids[2], &date, &status,
			&view.Username, &view.BookTitle, &view.BookAuthor,
		); err != nil {
			return nil, errors.Join(errScanningReservationFailed, err)
		}

		if view.Reservation, err = buildReservation(ids, date, status); err != nil {
			return nil, err
		}

		views = append(views, view)
	}

	if err = rows.Err(); err != nil {
		return nil, classifyError(err)
	}

	return views, nil
}

func (st statements) upsertUser(ctx context.Context, userID uuid.UUID, username string) error {
	ds := dialect().Insert(goqu.T(st.tables.users)).Prepared(true).
		Rows(goqu.Record{
			colID:       uuidParam(userID),
			colUsername: username,
		}).
		OnConflict(goqu.DoUpdate(colID, goqu.Record{colUsername: goqu.L("EXCLUDED.username")}))

	_, err := st.exec(ctx, operationUpsertUser, ds)

	return err
}

// buildReservation converts the id columns (id, user_id, book_id) and the remaining fields of a row.
func buildReservation(ids [3]string, date time.Time, statusText string) (catalog.Reservation, error) {
	var parsed [3]uuid.UUID

	for i, idText := range ids {
		id, err := uuid.Parse(idText)
		if err != nil {
			return catalog.Reservation{}, errors.Join(errInvalidStoredUUID, err)
		}

		parsed[i] = id
	}

	status, ok := catalog.ParseReservationStatus(statusText)
	if !ok {
		return catalog.Reservation{}, fmt.Errorf("%w: unknown status %q", errScanningReservationFailed, statusText)
	}

	return catalog.Reservation{
		ID:              parsed[0],
		UserID:          parsed[1],
		BookID:          parsed[2],
		ReservationDate: date.UTC(),
		Status:          status,
	}, nil
}
