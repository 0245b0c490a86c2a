// Package restockbook implements the Restock Book use case.
//
// Administrators add newly acquired copies to a book's available quantity. Restocking is the
// only way inventory grows outside of cancellations, and every change is recorded as a
// BookRestocked event, so the inventory of a book stays auditable:
//
//	initial quantity + restocked copies = available quantity + active reservations
package restockbook
