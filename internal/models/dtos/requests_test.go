package dtos

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCancelFlightReq_Validate(t *testing.T) {
	tests := []struct {
		reason string
		ok     bool
	}{
		{"fog", false},
		{"été", false},
		{"    abcd    ", false},
		{"abcde", true},
		{"météo", true},
	}
	for _, tt := range tests {
		err := (&CancelFlightReq{Reason: tt.reason}).Validate()
		assert.Equal(t, tt.ok, err == nil, "reason %q", tt.reason)
	}
}

func TestFlightFilter_NormalizeBoundsPaging(t *testing.T) {
	f := FlightFilter{Page: 1 << 62, Limit: 1 << 62}
	f.Normalize()

	assert.Equal(t, MaxFlightsPage, f.Page)
	assert.Equal(t, MaxFlightsPageLimit, f.Limit)
	assert.Equal(t, (MaxFlightsPage-1)*MaxFlightsPageLimit, f.Offset())

	f = FlightFilter{}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultFlightsPageLimit, f.Limit)
	assert.Zero(t, f.Offset())
}

func TestAircraftTypeLength(t *testing.T) {
	ok := strings.Repeat("é", MaxAircraftTypeLength)
	long := strings.Repeat("A", MaxAircraftTypeLength+1)

	assert.NoError(t, (&UpdateFlightReq{AircraftType: &ok}).Validate())
	assert.Error(t, (&UpdateFlightReq{AircraftType: &long}).Validate())
	assert.NoError(t, (&UpdateFlightReq{}).Validate())
}
