package removebook

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

	testCases := []struct {
		name        string
		state       state
		caller      catalog.Principal
		expectedErr error
	}{
		{"admin removes unreserved book", state{bookExists: true}, admin, nil},
		{"user is forbidden", state{bookExists: true}, user, catalog.ErrForbidden},
		{"book does not exist", state{}, admin, catalog.ErrBookNotFound},
		{"book has active reservations", state{bookExists: true, activeReservations: 2}, admin, catalog.ErrBookHasActiveReservations},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := Decide(tc.state, BuildCommand(tc.caller, uuid.New(), time.Now()))

			// assert
			if tc.expectedErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
