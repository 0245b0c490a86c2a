package cancelreservation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/features/command/cancelreservation"
)

func Test_Decide_Success(t *testing.T) {
	ownerID := uuid.New()

	testCases := []struct {
		name   string
		caller catalog.Principal
	}{
		{"owner cancels own reservation", catalog.BuildPrincipal(ownerID, catalog.RoleUser)},
		{"admin cancels any reservation", catalog.BuildPrincipal(uuid.New(), catalog.RoleAdmin)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			reservation := givenReservation(ownerID, catalog.StatusActive)
			command := cancelreservation.BuildCommand(reservation.ID, tc.caller, time.Now())

			// act
			err := cancelreservation.Decide(reservation, command)

			// assert
			assert.NoError(t, err)
		})
	}
}

func Test_Decide_BusinessErrors(t *testing.T) {
	ownerID := uuid.New()

	testCases := []struct {
		name        string
		status      catalog.ReservationStatus
		caller      catalog.Principal
		expectedErr error
	}{
		{
			name:        "other user cancels",
			status:      catalog.StatusActive,
			caller:      catalog.BuildPrincipal(uuid.New(), catalog.RoleUser),
			expectedErr: catalog.ErrForbidden,
		},
		{
			name:        "owner cancels twice",
			status:      catalog.StatusCanceled,
			caller:      catalog.BuildPrincipal(ownerID, catalog.RoleUser),
			expectedErr: catalog.ErrInvalidTransition,
		},
		{
			name:        "admin cancels a canceled reservation",
			status:      catalog.StatusCanceled,
			caller:      catalog.BuildPrincipal(uuid.New(), catalog.RoleAdmin),
			expectedErr: catalog.ErrInvalidTransition,
		},
		{
			name:        "authorization is checked before the transition",
			status:      catalog.StatusCanceled,
			caller:      catalog.BuildPrincipal(uuid.New(), catalog.RoleUser),
			expectedErr: catalog.ErrForbidden,
		},
		{
			name:        "unknown role is no admin",
			status:      catalog.StatusActive,
			caller:      catalog.BuildPrincipal(uuid.New(), catalog.Role("superuser")),
			expectedErr: catalog.ErrForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			reservation := givenReservation(ownerID, tc.status)
			command := cancelreservation.BuildCommand(reservation.ID, tc.caller, time.Now())

			// act
			err := cancelreservation.Decide(reservation, command)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func givenReservation(ownerID uuid.UUID, status catalog.ReservationStatus) catalog.Reservation {
	return catalog.Reservation{
		ID:              uuid.New(),
		UserID:          ownerID,
		BookID:          uuid.New(),
		ReservationDate: time.Now().Add(-time.Hour),
		Status:          status,
	}
}
