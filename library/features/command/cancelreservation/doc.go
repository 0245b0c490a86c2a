// Package cancelreservation implements the Cancel Reservation use case.
//
// Users may cancel their own reservations, administrators any reservation. Canceling
// sets the status to canceled and returns the held copy to the book's available quantity,
// both in one transaction. Canceled is terminal, so a second cancel is rejected with
// catalog.ErrInvalidTransition and the copy is restored exactly once.
package cancelreservation
