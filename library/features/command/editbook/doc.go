// Package editbook implements the Edit Book use case.
//
// Administrators change the descriptive fields of a book. The available quantity is never
// touched by an edit; it only moves through reservations, cancellations and restocking.
package editbook
