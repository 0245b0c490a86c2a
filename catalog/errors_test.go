package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

func Test_ErrorType_And_IsBusinessRuleViolation(t *testing.T) {
	tests := []struct {
		name              string
		err               error
		expectedType      string
		expectedViolation bool
	}{
		{name: "nil", err: nil, expectedType: "none"},
		{name: "book not found", err: catalog.ErrBookNotFound, expectedType: "not_found", expectedViolation: true},
		{name: "reservation not found", err: catalog.ErrReservationNotFound, expectedType: "not_found", expectedViolation: true},
		{name: "out of stock", err: catalog.ErrOutOfStock, expectedType: "out_of_stock", expectedViolation: true},
		{name: "forbidden", err: catalog.ErrForbidden, expectedType: "forbidden", expectedViolation: true},
		{name: "invalid transition", err: catalog.ErrInvalidTransition, expectedType: "invalid_transition", expectedViolation: true},
		{name: "active reservations", err: catalog.ErrBookHasActiveReservations, expectedType: "book_has_active_reservations", expectedViolation: true},
		{name: "invalid book", err: catalog.ErrInvalidBook, expectedType: "invalid_argument", expectedViolation: true},
		{name: "invalid pagination", err: catalog.ErrInvalidPagination, expectedType: "invalid_argument", expectedViolation: true},
		{name: "invalid quantity change", err: catalog.ErrInvalidQuantityChange, expectedType: "invalid_argument", expectedViolation: true},
		{name: "constraint violation", err: catalog.ErrConstraintViolation, expectedType: "constraint_violation"},
		{name: "transient contention", err: catalog.ErrTransientContention, expectedType: "transient_contention"},
		{name: "storage unavailable", err: catalog.ErrStorageUnavailable, expectedType: "storage_unavailable"},
		{name: "context canceled", err: context.Canceled, expectedType: "context_canceled"},
		{name: "deadline exceeded", err: context.DeadlineExceeded, expectedType: "context_deadline_exceeded"},
		{name: "unknown", err: errors.New("boom"), expectedType: "other"},
		{
			name:              "wrapped out of stock",
			err:               fmt.Errorf("reserve: %w", errors.Join(catalog.ErrOutOfStock, errors.New("detail"))),
			expectedType:      "out_of_stock",
			expectedViolation: true,
		},
		{
			name:         "joined contention",
			err:          errors.Join(catalog.ErrTransientContention, errors.New("40001")),
			expectedType: "transient_contention",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			errorType := catalog.ErrorType(tt.err)
			violation := catalog.IsBusinessRuleViolation(tt.err)

			// assert
			assert.Equal(t, tt.expectedType, errorType)
			assert.Equal(t, tt.expectedViolation, violation)
		})
	}
}

func Test_NotFoundErrors_ShouldShareTheNotFoundCategory(t *testing.T) {
	assert.ErrorIs(t, catalog.ErrBookNotFound, catalog.ErrNotFound)
	assert.ErrorIs(t, catalog.ErrReservationNotFound, catalog.ErrNotFound)
	assert.NotErrorIs(t, catalog.ErrBookNotFound, catalog.ErrReservationNotFound)
}
