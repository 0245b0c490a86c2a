package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
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

var errScanningBookFailed = errors.New("scanning book row failed")

func bookColumns() []interface{} {
	return []interface{}{
		goqu.C(colID),
		goqu.C(colTitle),
		goqu.C(colAuthor),
		goqu.L("COALESCE(genre, '')"),
		goqu.L("COALESCE(publication_year, 0)"),
		goqu.L("COALESCE(description, '')"),
		goqu.L("COALESCE(cover_ref, '')"),
		goqu.C(colQuantity),
	}
}

func (st statements) getBook(ctx context.Context, bookID uuid.UUID) (catalog.Book, error) {
	ds := dialect().From(goqu.T(st.tables.books)).Prepared(true).
		Select(bookColumns()...).
		Where(goqu.C(colID).Eq(bookID.String()))

	rows, err := st.query(ctx, operationGetBook, ds)
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
	record[colID] = bookID.String()
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
		Where(goqu.C(colID).Eq(bookID.String()))

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
		Where(goqu.C(colID).Eq(bookID.String()))

	rowsAffected, err := st.exec(ctx, operationDeleteBook, ds)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return catalog.ErrBookNotFound
	}

	return nil
}

// adjustQuantity applies delta in a single conditional statement and reads the result back
// on the same connection.
func (st statements) adjustQuantity(ctx context.Context, bookID uuid.UUID, delta int) (int, error) {
	ds := dialect().Update(goqu.T(st.tables.books)).Prepared(true).
		Set(goqu.Record{colQuantity: goqu.L("quantity + ?", delta)}).
		Where(
			goqu.C(colID).Eq(bookID.String()),
			goqu.L("quantity + ? >= 0", delta),
		)

	rowsAffected, err := st.exec(ctx, operationAdjustQuantity, ds)
	if err != nil {
		return 0, err
	}

	book, err := st.getBook(ctx, bookID)
	if err != nil {
		return 0, err
	}

	if rowsAffected == 0 {
		st.instrumentation.RecordOutOfStock(ctx, operationAdjustQuantity)

		return 0, fmt.Errorf("%w: book %s, delta %d", catalog.ErrConstraintViolation, bookID, delta)
	}

	return book.Quantity, nil
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

func scanBook(rows *sql.Rows) (catalog.Book, error) {
	var (
		book catalog.Book
		year int64
	)

	err := rows.Scan(
		&book.ID,
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
