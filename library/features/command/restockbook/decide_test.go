package restockbook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/features/command/restockbook"
)

func Test_Decide(t *testing.T) {
	admin := catalog.BuildPrincipal(uuid.New(), catalog.RoleAdmin)
	user := catalog.BuildPrincipal(uuid.New(), catalog.RoleUser)

	testCases := []struct {
		name        string
		caller      catalog.Principal
		copies      int
		expectedErr error
	}{
		{"admin adds copies", admin, 3, nil},
		{"user is forbidden", user, 3, catalog.ErrForbidden},
		{"zero copies", admin, 0, catalog.ErrInvalidQuantityChange},
		{"negative copies", admin, -2, catalog.ErrInvalidQuantityChange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := restockbook.Decide(restockbook.BuildCommand(tc.caller, uuid.New(), tc.copies, time.Now()))

			// assert
			if tc.expectedErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
