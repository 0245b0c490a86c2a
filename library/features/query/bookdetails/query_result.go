package bookdetails

import (
	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// BookDetails is a catalog entry plus its availability.
type BookDetails struct {
	catalog.Book
	Available bool
}
