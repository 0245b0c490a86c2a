package reservebook_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/features/command/reservebook"
)

func Test_Decide_Success_WhenCopiesAreAvailable(t *testing.T) {
	// arrange
	book := catalog.Book{ID: uuid.New(), Title: "Dune", Author: "Frank Herbert", Quantity: 1}
	command := reservebook.BuildCommand(uuid.New(), book.ID)

	// act
	err := reservebook.Decide(book, command)

	// assert
	assert.NoError(t, err)
}

func Test_Decide_BusinessErrors(t *testing.T) {
	bookID := uuid.New()

	testCases := []struct {
		name        string
		book        catalog.Book
		userID      uuid.UUID
		expectedErr error
	}{
		{
			name:        "no copy available",
			book:        catalog.Book{ID: bookID, Quantity: 0},
			userID:      uuid.New(),
			expectedErr: catalog.ErrOutOfStock,
		},
		{
			name:        "caller not authenticated",
			book:        catalog.Book{ID: bookID, Quantity: 3},
			userID:      uuid.Nil,
			expectedErr: catalog.ErrForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := reservebook.BuildCommand(tc.userID, bookID)

			// act
			err := reservebook.Decide(tc.book, command)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
