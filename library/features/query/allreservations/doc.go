// Package allreservations implements the administrative All Reservations query use case.
//
// Only administrators may list the reservations of all users. Every entry carries the username
// and the title and author of the reserved book, newest reservation first.
package allreservations
