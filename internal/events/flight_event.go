package events

import (
	"context"
	"time"

	"airport-ops/tarmac/internal/auth"
	"airport-ops/tarmac/internal/models/gorm"

	"github.com/google/uuid"
)

// FlightEvent records one mutation of a flight pair
type FlightEvent struct {
	ID           string                 `json:"id"`
	Action       string                 `json:"action"`
	FlightID     string                 `json:"flight_id"`
	TwinID       *string                `json:"twin_id,omitempty"`
	FlightNumber string                 `json:"flight_number"`
	ActorID      string                 `json:"actor_id,omitempty"`
	AirportID    string                 `json:"airport_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
	OccurredAt   time.Time              `json:"occurred_at"`
}

// NewFlightEvent builds an event for flight, taking the actor from the
// request claims in ctx when present
func NewFlightEvent(ctx context.Context, action string, flight *gorm.Flight, details map[string]interface{}) *FlightEvent {
	evt := &FlightEvent{
		ID:           uuid.NewString(),
		Action:       action,
		FlightID:     flight.ID,
		TwinID:       flight.TwinID,
		FlightNumber: flight.FlightNumber,
		Details:      details,
		OccurredAt:   time.Now().UTC(),
	}
	if claims := auth.GetUserClaims(ctx); claims != nil {
		evt.ActorID = claims.UserID()
		evt.AirportID = claims.AirportID()
	}
	return evt
}

// Publisher delivers flight events to a sink
type Publisher interface {
	Publish(ctx context.Context, evt *FlightEvent) error
	Name() string
	Close() error
}
