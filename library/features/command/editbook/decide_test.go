package editbook

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

func Test_Decide(t *testing.T) {
	admin := catalog.BuildPrincipal(uuid.New(), catalog.RoleAdmin)
	user := catalog.BuildPrincipal(uuid.New(), catalog.RoleUser)
	validFields := catalog.BuildBookFields("Dune Messiah", "Frank Herbert", "Science Fiction", 1969, "", "", 0)
	invalidFields := catalog.BuildBookFields("", "Frank Herbert", "", 0, "", "", 0)

	testCases := []struct {
		name        string
		state       state
		caller      catalog.Principal
		fields      catalog.BookFields
		expectedErr error
	}{
		{"admin edits existing book", state{bookExists: true}, admin, validFields, nil},
		{"user is forbidden even for unknown books", state{bookExists: false}, user, validFields, catalog.ErrForbidden},
		{"book does not exist", state{bookExists: false}, admin, validFields, catalog.ErrBookNotFound},
		{"title missing", state{bookExists: true}, admin, invalidFields, catalog.ErrInvalidBook},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := BuildCommand(tc.caller, uuid.New(), tc.fields, time.Now())

			// act
			err := Decide(tc.state, command)

			// assert
			if tc.expectedErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_BuildCommand_IgnoresQuantity(t *testing.T) {
	// act
	command := BuildCommand(catalog.Principal{}, uuid.New(), catalog.BuildBookFields("t", "a", "", 0, "", "", 99), time.Now())

	// assert
	assert.Zero(t, command.Fields.Quantity)
}
