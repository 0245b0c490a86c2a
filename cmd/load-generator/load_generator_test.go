package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_ParseWeights(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []int
		wantErr  bool
	}{
		{"default", "50,30,20", []int{50, 30, 20}, false},
		{"with spaces", " 1, 0 ,2 ", []int{1, 0, 2}, false},
		{"too few", "50,50", nil, true},
		{"not a number", "a,b,c", nil, true},
		{"negative", "-1,1,1", nil, true},
		{"all zero", "0,0,0", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			weights, err := ParseWeights(tc.input)

			// assert
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSettings)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, weights)
		})
	}
}

func Test_Settings_Validate(t *testing.T) {
	// arrange
	valid := Settings{Workers: 1, Duration: time.Second, Books: 1, CopiesPerBook: 1, Users: 1, Weights: []int{1, 1, 1}}
	noWorkers := valid
	noWorkers.Workers = 0
	negativeCopies := valid
	negativeCopies.CopiesPerBook = -1

	// act + assert
	assert.NoError(t, valid.Validate())
	assert.ErrorIs(t, noWorkers.Validate(), ErrInvalidSettings)
	assert.ErrorIs(t, negativeCopies.Validate(), ErrInvalidSettings)
}

func Test_LoadGenerator_Run_KeepsConservationLaw(t *testing.T) {
	// setup
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	// arrange
	settings := Settings{
		Workers:       6,
		Duration:      500 * time.Millisecond,
		Books:         3,
		CopiesPerBook: 2,
		Users:         5,
		Weights:       []int{50, 30, 20},
	}

	generator, err := NewLoadGenerator(wrapper.GetStore(), settings, Observability{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), settings.Duration)
	defer cancel()

	// act
	err = generator.Run(ctx)

	// assert
	require.NoError(t, err)

	stats := generator.Stats()
	assert.Positive(t, stats.Reserved+stats.OutOfStock)
	assert.Zero(t, stats.Errors)

	verifyCtx, verifyCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer verifyCancel()

	violations, err := generator.VerifyConservation(verifyCtx)
	require.NoError(t, err)
	assert.Empty(t, violations)
}
