// Package reservationsbyuser implements the Reservations By User query use case.
//
// It lists all reservations of one user, active and canceled, newest first, together with the
// title and author of the reserved book. Books removed from the catalog show empty display fields.
package reservationsbyuser
