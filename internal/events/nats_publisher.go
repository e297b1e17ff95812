package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"airport-ops/tarmac/internal/constants"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes events to JetStream on flights.events.<action>
type NATSPublisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewNATSPublisher connects and makes sure the FLIGHT_EVENTS stream exists
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("tarmac"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     constants.FlightEventNATSStream,
		Subjects: []string{constants.FlightEventSubjectRoot + ".>"},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil && !strings.Contains(err.Error(), "stream name already in use") {
		nc.Close()
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	return &NATSPublisher{conn: nc, js: js}, nil
}

// Subject returns the subject an action is published on
func Subject(action string) string {
	return constants.FlightEventSubjectRoot + "." + action
}

func (p *NATSPublisher) Publish(ctx context.Context, evt *FlightEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal flight event: %w", err)
	}

	// Msg-Id lets JetStream drop duplicates of a retried publish
	if _, err := p.js.Publish(Subject(evt.Action), data, nats.Context(ctx), nats.MsgId(evt.ID)); err != nil {
		return fmt.Errorf("failed to publish flight event: %w", err)
	}
	return nil
}

func (p *NATSPublisher) Name() string { return "nats" }

func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
