package services

import (
	"errors"
	"testing"

	"airport-ops/tarmac/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := map[constants.FlightStatus][]constants.FlightStatus{
		constants.FlightStatusScheduled: {constants.FlightStatusBoarding, constants.FlightStatusDelayed, constants.FlightStatusCancelled},
		constants.FlightStatusBoarding:  {constants.FlightStatusDeparted, constants.FlightStatusDelayed, constants.FlightStatusCancelled},
		constants.FlightStatusDelayed:   {constants.FlightStatusBoarding, constants.FlightStatusDeparted, constants.FlightStatusCancelled},
		constants.FlightStatusDeparted:  {constants.FlightStatusInAir, constants.FlightStatusCancelled},
		constants.FlightStatusInAir:     {constants.FlightStatusLanded},
	}

	for _, from := range constants.AllFlightStatuses {
		for _, to := range constants.AllFlightStatuses {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(constants.FlightStatusLanded))
	assert.True(t, IsTerminal(constants.FlightStatusCancelled))
	assert.False(t, IsTerminal(constants.FlightStatusInAir))
	assert.False(t, IsTerminal(constants.FlightStatusScheduled))
}

func TestAllowedTransitions_ReturnsCopy(t *testing.T) {
	next := AllowedTransitions(constants.FlightStatusScheduled)
	require.Len(t, next, 3)
	next[0] = constants.FlightStatusLanded

	assert.True(t, CanTransition(constants.FlightStatusScheduled, constants.FlightStatusBoarding))
	assert.False(t, CanTransition(constants.FlightStatusScheduled, constants.FlightStatusLanded))
}

func TestValidateStatusTransition(t *testing.T) {
	assert.NoError(t, ValidateStatusTransition(constants.FlightStatusBoarding, constants.FlightStatusDeparted))

	err := ValidateStatusTransition(constants.FlightStatusScheduled, constants.FlightStatusInAir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	var fe *FlightError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, constants.FlightStatusScheduled, fe.From)
	assert.Equal(t, constants.FlightStatusInAir, fe.To)
	assert.Contains(t, err.Error(), "scheduled")
	assert.Contains(t, err.Error(), "in_air")
}

func TestFlightError_IsMatchesKindOnly(t *testing.T) {
	err := newFlightError(constants.ErrCodeNotFound, "flight %s not found", "x")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrTwinSyncFailed))
	assert.Equal(t, constants.ErrCodeNotFound, ErrorKind(err))
	assert.Equal(t, "", ErrorKind(errors.New("plain")))
}
