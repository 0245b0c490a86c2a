package helper

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// TxRunner is the part of a store the fixtures need to arrange test data.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn catalog.TxFunc) error
}

// BookReader is the part of a store the assertions need to inspect books.
type BookReader interface {
	GetBook(ctx context.Context, bookID uuid.UUID) (catalog.Book, error)
}

func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id
}

func GivenUser(t testing.TB) catalog.Principal {
	return catalog.BuildPrincipal(GivenUniqueID(t), catalog.RoleUser)
}

func GivenAdmin(t testing.TB) catalog.Principal {
	return catalog.BuildPrincipal(GivenUniqueID(t), catalog.RoleAdmin)
}

func FixtureBookFields(quantity int) catalog.BookFields {
	return catalog.BuildBookFields(
		"Learning Domain-Driven Design",
		"Vlad Khononov",
		"Software",
		2021,
		"Aligning software architecture and business strategy",
		"covers/ddd.jpg",
		quantity,
	)
}

func FixtureNumberedBookFields(number int, quantity int) catalog.BookFields {
	return catalog.BuildBookFields(
		fmt.Sprintf("Book %03d", number),
		fmt.Sprintf("Author %03d", number),
		"Fiction",
		2000,
		"",
		"",
		quantity,
	)
}

// GivenBookInCatalog creates a book with the given initial quantity and returns its id.
func GivenBookInCatalog(t testing.TB, ctx context.Context, store TxRunner, fields catalog.BookFields) uuid.UUID {
	t.Helper()

	var bookID uuid.UUID
	err := store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
		var createErr error
		bookID, createErr = tx.CreateBook(ctx, fields)

		return createErr
	})
	require.NoError(t, err, "error in arranging test data")

	return bookID
}

// GivenActiveReservation reserves one copy of the book for the user the way the reserve use case does.
func GivenActiveReservation(t testing.TB, ctx context.Context, store TxRunner, userID, bookID uuid.UUID) catalog.Reservation {
	t.Helper()

	var reservation catalog.Reservation
	err := store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
		if _, adjustErr := tx.AdjustQuantity(ctx, bookID, -1); adjustErr != nil {
			return adjustErr
		}

		var insertErr error
		reservation, insertErr = tx.InsertReservation(ctx, userID, bookID)

		return insertErr
	})
	require.NoError(t, err, "error in arranging test data")

	return reservation
}

// AssertBookQuantity loads the book and compares its available quantity.
func AssertBookQuantity(t testing.TB, ctx context.Context, store BookReader, bookID uuid.UUID, expected int) {
	t.Helper()

	book, err := store.GetBook(ctx, bookID)
	require.NoError(t, err, "error loading book for assertion")
	assert.Equal(t, expected, book.Quantity, "unexpected book quantity")
}

// CountActiveReservations counts the active reservations of a book inside a read transaction.
func CountActiveReservations(t testing.TB, ctx context.Context, store TxRunner, bookID uuid.UUID) int {
	t.Helper()

	var count int
	err := store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
		var countErr error
		count, countErr = tx.CountActiveReservations(ctx, bookID)

		return countErr
	})
	require.NoError(t, err, "error counting active reservations")

	return count
}

// AssertConservationLaw checks quantity >= 0 and quantity + active reservations == initial quantity.
func AssertConservationLaw(
	t testing.TB,
	ctx context.Context,
	store interface {
		TxRunner
		BookReader
	},
	bookID uuid.UUID,
	initialQuantity int,
) {
	t.Helper()

	book, err := store.GetBook(ctx, bookID)
	require.NoError(t, err, "error loading book for assertion")

	active := CountActiveReservations(t, ctx, store, bookID)

	assert.GreaterOrEqual(t, book.Quantity, 0, "quantity must never be negative")
	assert.Equal(t, initialQuantity, book.Quantity+active, "quantity + active reservations must equal the initial quantity")
}
