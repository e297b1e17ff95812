package events

import (
	"context"

	"airport-ops/tarmac/internal/logging"
)

// LogPublisher writes events to the structured log only
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher { return &LogPublisher{} }

func (p *LogPublisher) Publish(_ context.Context, evt *FlightEvent) error {
	logging.Info("Flight event",
		"event_id", evt.ID,
		"action", evt.Action,
		"flight_id", evt.FlightID,
		"flight_number", evt.FlightNumber,
		"actor_id", evt.ActorID,
		"details", evt.Details,
	)
	return nil
}

func (p *LogPublisher) Name() string { return "log" }

func (p *LogPublisher) Close() error { return nil }
