package events

import (
	"context"
	"encoding/json"
	"testing"

	"airport-ops/tarmac/internal/auth"
	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlight() *gorm.Flight {
	twin := "twin-1"
	return &gorm.Flight{ID: "flt-1", FlightNumber: "MD301", TwinID: &twin}
}

func TestNewFlightEvent_TakesActorFromClaims(t *testing.T) {
	ctx := auth.SetUserClaims(context.Background(), &auth.JWTClaims{
		UserUUID:    "ops-7",
		RoleValue:   constants.RoleAdminRegional,
		AirportUUID: "apt-mle",
	})

	evt := NewFlightEvent(ctx, constants.FlightEventDelayed, testFlight(), map[string]interface{}{"minutes": 30})

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "flight_delayed", evt.Action)
	assert.Equal(t, "flt-1", evt.FlightID)
	require.NotNil(t, evt.TwinID)
	assert.Equal(t, "twin-1", *evt.TwinID)
	assert.Equal(t, "ops-7", evt.ActorID)
	assert.Equal(t, "apt-mle", evt.AirportID)
	assert.False(t, evt.OccurredAt.IsZero())
}

func TestNewFlightEvent_WithoutClaims(t *testing.T) {
	evt := NewFlightEvent(context.Background(), constants.FlightEventCreated, testFlight(), nil)
	assert.Empty(t, evt.ActorID)
	assert.Empty(t, evt.AirportID)
}

func TestDecodeStreamValues(t *testing.T) {
	evt := NewFlightEvent(context.Background(), constants.FlightEventCancelled, testFlight(), map[string]interface{}{"reason": "weather"})
	data, err := json.Marshal(evt)
	require.NoError(t, err)

	decoded, err := DecodeStreamValues(map[string]interface{}{"action": evt.Action, "data": string(data)})
	require.NoError(t, err)
	assert.Equal(t, evt.ID, decoded.ID)
	assert.Equal(t, "weather", decoded.Details["reason"])

	_, err = DecodeStreamValues(map[string]interface{}{"action": "x"})
	assert.Error(t, err)

	_, err = DecodeStreamValues(map[string]interface{}{"data": "{not json"})
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "flights.events.flight_cancelled", Subject(constants.FlightEventCancelled))
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher()
	assert.Equal(t, "log", p.Name())
	assert.NoError(t, p.Publish(context.Background(), NewFlightEvent(context.Background(), constants.FlightEventDeleted, testFlight(), nil)))
	assert.NoError(t, p.Close())
}
