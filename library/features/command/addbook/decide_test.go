package addbook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/features/command/addbook"
)

func Test_Decide_Success(t *testing.T) {
	// arrange
	admin := catalog.BuildPrincipal(uuid.New(), catalog.RoleAdmin)
	fields := catalog.BuildBookFields("Dune", "Frank Herbert", "Science Fiction", 1965, "", "", 4)

	// act
	err := addbook.Decide(addbook.BuildCommand(admin, fields, time.Now()))

	// assert
	assert.NoError(t, err)
}

func Test_Decide_BusinessErrors(t *testing.T) {
	admin := catalog.BuildPrincipal(uuid.New(), catalog.RoleAdmin)
	user := catalog.BuildPrincipal(uuid.New(), catalog.RoleUser)

	testCases := []struct {
		name        string
		caller      catalog.Principal
		fields      catalog.BookFields
		expectedErr error
	}{
		{"caller is no admin", user, catalog.BuildBookFields("Dune", "Frank Herbert", "", 0, "", "", 1), catalog.ErrForbidden},
		{"title missing", admin, catalog.BuildBookFields("  ", "Frank Herbert", "", 0, "", "", 1), catalog.ErrInvalidBook},
		{"author missing", admin, catalog.BuildBookFields("Dune", "", "", 0, "", "", 1), catalog.ErrInvalidBook},
		{"negative quantity", admin, catalog.BuildBookFields("Dune", "Frank Herbert", "", 0, "", "", -1), catalog.ErrInvalidBook},
		{"year out of range", admin, catalog.BuildBookFields("Dune", "Frank Herbert", "", 10000, "", "", 1), catalog.ErrInvalidBook},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := addbook.Decide(addbook.BuildCommand(tc.caller, tc.fields, time.Now()))

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
