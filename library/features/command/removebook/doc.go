// Package removebook implements the Remove Book use case.
//
// Administrators remove a book from the catalog. Removal is refused with
// catalog.ErrBookHasActiveReservations while any reservation still holds a copy of the book.
// Canceled reservations stay in the ledger as history; their book display fields become empty.
package removebook
