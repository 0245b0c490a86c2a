// Package addbook implements the Add Book use case.
//
// Administrators add a book to the catalog with its initial number of available copies.
// Title and author are required. The book id is a time-ordered UUID assigned by the store.
package addbook
