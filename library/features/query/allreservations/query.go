package allreservations

import (
	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	queryType = "AllReservations"
)

// Query represents the intent of an administrator to list all reservations.
type Query struct {
	Caller catalog.Principal
}

// BuildQuery creates a new Query for the calling principal.
func BuildQuery(caller catalog.Principal) Query {
	return Query{
		Caller: caller,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
