package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	colID              = "id"
	colTitle           = "title"
	colAuthor          = "author"
	colGenre           = "genre"
	colPublicationYear = "publication_year"
	colDescription     = "description"
	colCoverRef        = "cover_ref"
	colQuantity        = "quantity"
)

var (
	errScanningBookFailed = errors.New("scanning book row failed")
	errInvalidStoredUUID  = errors.New("stored uuid is invalid")
)

func bookColumns() []interface{} {
	return []interface{}{
		goqu.L("id::text"),
		goqu.C(colTitle),
		goqu.C(colAuthor),
		goqu.L("COALESCE(genre, '')"),
		goqu.L("COALESCE(publication_year, 0)"),
		goqu.L("COALESCE(description, '')"),
		goqu.L("COALESCE(cover_ref, '')"),
		goqu.C(colQuantity),
	}
}

func (st statements) getBook(ctx context.Context, bookID uuid.UUID, forUpdate bool) (catalog.Book, error) {
	ds := dialect().From(goqu.T(st.tables.books)).Prepared(true).
		Select(bookColumns()...).
		Where(goqu.C(colID).Eq(uuidParam(bookID)))

	action := operationGetBook
	if forUpdate {
		ds = ds.ForUpdate(exp.Wait)
		action = operationGetBookForUpdate
	}

	rows, err := st.query(ctx, action, ds)
	if err != nil {
		return catalog.Book{}, err
	}
	defer st.closeRows(ctx, rows)

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return catalog.Book{}, classifyError(err)
		}

		return catalog.Book{}, catalog.ErrBookNotFound
	}

	return scanBook(rows)
}

func (st statements) listBooks(ctx context.Context) ([]catalog.Book, error) {
	ds := dialect().From(goqu.T(st.tables.books)).Prepared(true).
		Select(bookColumns()...).
		Order(goqu.C(colID).Asc())

	rows, err := st.query(ctx, operationListBooks, ds)
	if err != nil {
		return nil, err
	}
	defer st.closeRows(ctx, rows)

	books := make([]catalog.Book, 0)
	for rows.Next() {
		book, scanErr := scanBook(rows)
		if scanErr != nil {
			return nil, scanErr
		}

		books = append(books, book)
	}

	if err = rows.Err(); err != nil {
		return nil, classifyError(err)
	}

	return books, nil
}

func (st statements) createBook(ctx context.Context, fields catalog.BookFields) (uuid.UUID, error) {
	bookID, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, err
	}

	record := bookRecord(fields)
	record[colID] = uuidParam(bookID)
	record[colQuantity] = fields.Quantity

	ds := dialect().Insert(goqu.T(st.tables.books)).Prepared(true).Rows(record)

	if _, err = st.exec(ctx, operationCreateBook, ds); err != nil {
		return uuid.Nil, err
	}

	return bookID, nil
}

func (st statements) updateBook(ctx context.Context, bookID uuid.UUID, fields catalog.BookFields) error {
	ds := dialect().Update(goqu.T(st.tables.books)).Prepared(true).
		Set(bookRecord(fields)).
		Where(goqu.C(colID).Eq(uuidParam(bookID)))

	rowsAffected, err := st.exec(ctx, operationUpdateBook, ds)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return catalog.ErrBookNotFound
	}

	return nil
}

func (st statements) deleteBook(ctx context.Context, bookID uuid.UUID) error {
	ds := dialect().Delete(goqu.T(st.tables.books)).Prepared(true).
		Where(goqu.C(colID).Eq(uuidParam(bookID)))

	rowsAffected, err := st.exec(ctx, operationDeleteBook, ds)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return catalog.ErrBookNotFound
	}

	return nil
}

// adjustQuantity applies delta in a single conditional statement. A concurrent decrement of the
// last copy either sees the committed new value or blocks on the row lock until it can.
func (st statements) adjustQuantity(ctx context.Context, bookID uuid.UUID, delta int) (int, error) {
	ds := dialect().Update(goqu.T(st.tables.books)).Prepared(true).
		Set(goqu.Record{colQuantity: goqu.L("quantity + ?", delta)}).
		Where(
			goqu.C(colID).Eq(uuidParam(bookID)),
			goqu.L("quantity + ? >= 0", delta),
		).
		Returning(goqu.C(colQuantity))

	rows, err := st.query(ctx, operationAdjustQuantity, ds)
	if err != nil {
		return 0, err
	}

	if rows.Next() {
		var quantity int
		scanErr := rows.Scan(&quantity)
		st.closeRows(ctx, rows)

		if scanErr != nil {
			return 0, classifyError(scanErr)
		}

		return quantity, nil
	}

	rowsErr := rows.Err()
	st.closeRows(ctx, rows)

	if rowsErr != nil {
		return 0, classifyError(rowsErr)
	}

	exists, err := st.bookExists(ctx, bookID)
	if err != nil {
		return 0, err
	}

	if !exists {
		return 0, catalog.ErrBookNotFound
	}

	st.instrumentation.RecordOutOfStock(ctx, operationAdjustQuantity)

	return 0, fmt.Errorf("%w: book %s, delta %d", catalog.ErrConstraintViolation, bookID, delta)
}

func (st statements) bookExists(ctx context.Context, bookID uuid.UUID) (bool, error) {
	ds := dialect().From(goqu.T(st.tables.books)).Prepared(true).
		Select(goqu.L("1")).
		Where(goqu.C(colID).Eq(uuidParam(bookID)))

	rows, err := st.query(ctx, operationGetBook, ds)
	if err != nil {
		return false, err
	}
	defer st.closeRows(ctx, rows)

	exists := rows.Next()
	if err = rows.Err(); err != nil {
		return false, classifyError(err)
	}

	return exists, nil
}

func bookRecord(fields catalog.BookFields) goqu.Record {
	return goqu.Record{
		colTitle:           fields.Title,
		colAuthor:          fields.Author,
		colGenre:           nullIfEmpty(fields.Genre),
		colPublicationYear: nullIfZero(fields.PublicationYear),
		colDescription:     nullIfEmpty(fields.Description),
		colCoverRef:        nullIfEmpty(fields.CoverRef),
	}
}

func scanBook(rows interface{ Scan(dest ...any) error }) (catalog.Book, error) {
	var (
		book   catalog.Book
		idText string
		year   int64
	)

	err := rows.Scan(
		&idText,
		&book.Title,
		&book.Author,
		&book.Genre,
		&year,
		&book.Description,
		&book.CoverRef,
		&book.Quantity,
	)
	if err != nil {
		return catalog.Book{}, errors.Join(errScanningBookFailed, err)
	}

	if book.ID, err = uuid.Parse(idText); err != nil {
		return catalog.Book{}, errors.Join(errInvalidStoredUUID, err)
	}

	book.PublicationYear = uint(year)

	return book, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}

	return value
}

func nullIfZero(value uint) interface{} {
	if value == 0 {
		return nil
	}

	return int64(value)
}
