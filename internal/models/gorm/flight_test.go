package gorm

import (
	"errors"
	"testing"
	"time"

	"airport-ops/tarmac/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFlight() Flight {
	dep := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return Flight{
		ID:                 "dep-1",
		FlightNumber:       "Q2101",
		AirlineID:          "airline-1",
		DepartureAirportID: "airport-a",
		ArrivalAirportID:   "airport-b",
		ScheduledDeparture: dep,
		ScheduledArrival:   dep.Add(MinBlockTime),
		Status:             constants.FlightStatusScheduled,
		FlightType:         constants.FlightTypeDeparture,
	}
}

func TestFlight_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Flight)
		code   string
	}{
		{"valid", func(f *Flight) {}, ""},
		{"lowercase number", func(f *Flight) { f.FlightNumber = "q2101" }, constants.ErrCodeInvalidFlightNumber},
		{"number too long", func(f *Flight) { f.FlightNumber = "Q2101234" }, constants.ErrCodeInvalidFlightNumber},
		{"same airport", func(f *Flight) { f.ArrivalAirportID = f.DepartureAirportID }, constants.ErrCodeSameAirport},
		{"short block", func(f *Flight) { f.ScheduledArrival = f.ScheduledDeparture.Add(MinBlockTime - time.Second) }, constants.ErrCodeScheduleTooShort},
		{"negative delay", func(f *Flight) { f.DelayMinutes = -1 }, constants.ErrCodeInvalidDelay},
		{"bad status", func(f *Flight) { f.Status = "boarded" }, constants.ErrCodeInvalidStatus},
		{"bad type", func(f *Flight) { f.FlightType = "transit" }, constants.ErrCodeInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFlight()
			tt.mutate(&f)

			err := f.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			var inv *InvariantError
			require.True(t, errors.As(err, &inv), "got %v", err)
			assert.Equal(t, tt.code, inv.Code)
		})
	}
}

func TestIsFlightNumber(t *testing.T) {
	for _, ok := range []string{"MD301", "Q21", "ABC1234", "8Q12", "MD30123"} {
		assert.True(t, IsFlightNumber(ok), ok)
	}
	for _, bad := range []string{"", "MD", "M1", "MD-301", "md301", "MD301234", "M1D23"} {
		assert.False(t, IsFlightNumber(bad), bad)
	}
}
