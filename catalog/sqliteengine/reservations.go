package sqliteengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
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

	reservationDate := time.Now().UTC().Truncate(time.Microsecond)

	ds := dialect().Insert(goqu.T(st.tables.reservations)).Prepared(true).
		Rows(goqu.Record{
			colID:              reservationID.String(),
			colUserID:          userID.String(),
			colBookID:          bookID.String(),
			colReservationDate: toUnixMicro(reservationDate),
			colStatus:          string(catalog.StatusActive),
		})

	if _, err = st.exec(ctx, operationInsertReservation, ds); err != nil {
		return catalog.Reservation{}, err
	}

	return catalog.Reservation{
		ID:              reservationID,
		UserID:          userID,
		BookID:          bookID,
		ReservationDate: reservationDate,
		Status:          catalog.StatusActive,
	}, nil
}

func (st statements) getReservation(ctx context.Context, reservationID uuid.UUID) (catalog.Reservation, error) {
	ds := dialect().From(goqu.T(st.tables.reservations)).Prepared(true).
		Select(
			goqu.C(colID),
			goqu.C(colUserID),
			goqu.C(colBookID),
			goqu.C(colReservationDate),
			goqu.C(colStatus),
		).
		Where(goqu.C(colID).Eq(reservationID.String()))

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
		reservation catalog.Reservation
		micros      int64
		status      string
	)

	if err = rows.Scan(&reservation.ID, &reservation.UserID, &reservation.BookID, &micros, &status); err != nil {
		return catalog.Reservation{}, errors.Join(errScanningReservationFailed, err)
	}

	return completeReservation(reservation, micros, status)
}

// setReservationStatus only updates rows that are still active.
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
			goqu.C(colID).Eq(reservationID.String()),
			goqu.C(colStatus).Eq(string(catalog.StatusActive)),
		)

	rowsAffected, err := st.exec(ctx, operationSetStatus, ds)
	if err != nil {
		return err
	}

	if rowsAffected > 0 {
		return nil
	}

	current, err := st.getReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	return catalog.ValidateTransition(current.Status, next)
}

func (st statements) countActiveReservations(ctx context.Context, bookID uuid.UUID) (int, error) {
	ds := dialect().From(goqu.T(st.tables.reservations)).Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C(colBookID).Eq(bookID.String()),
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
			goqu.I("r."+colID),
			goqu.I("r."+colUserID),
			goqu.I("r."+colBookID),
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
		ds = ds.Where(goqu.I("r." + colUserID).Eq(userID.String()))
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
			view   catalog.ReservationView
			micros int64
			status string
		)

		if err = rows.Scan(
			&view.ID, &view.UserID, &view.BookID, &micros, &status,
			&view.Username, &view.BookTitle, &view.BookAuthor,
		); err != nil {
			return nil, errors.Join(errScanningReservationFailed, err)
		}

		if view.Reservation, err = completeReservation(view.Reservation, micros, status); err != nil {
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
			colID:       userID.String(),
			colUsername: username,
		}).
		OnConflict(goqu.DoUpdate(colID, goqu.Record{colUsername: goqu.L("excluded.username")}))

	_, err := st.exec(ctx, operationUpsertUser, ds)

	return err
}

func completeReservation(reservation catalog.Reservation, micros int64, statusText string) (catalog.Reservation, error) {
	status, ok := catalog.ParseReservationStatus(statusText)
	if !ok {
		return catalog.Reservation{}, fmt.Errorf("%w: unknown status %q", errScanningReservationFailed, statusText)
	}

	reservation.ReservationDate = fromUnixMicro(micros)
	reservation.Status = status

	return reservation, nil
}
