package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"airport-ops/tarmac/internal/logging"

	"github.com/redis/go-redis/v9"
)

// RedisStreamPublisher appends events to a Redis Stream and offers the
// consumer-group side used by the audit worker
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStreamPublisher creates a publisher on stream, trimmed to about maxLen entries
func NewRedisStreamPublisher(client *redis.Client, stream string, maxLen int64) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// Publish adds the event to the stream
// XADD stream MAXLEN ~ n * data <json>
func (p *RedisStreamPublisher) Publish(ctx context.Context, evt *FlightEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal flight event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"action": evt.Action,
			"data":   string(data),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

func (p *RedisStreamPublisher) Name() string { return "redis" }

func (p *RedisStreamPublisher) Close() error { return nil }

// StreamMessage is one decoded stream entry
type StreamMessage struct {
	ID    string
	Event *FlightEvent
}

// CreateConsumerGroup creates the group from the start of the stream if it doesn't exist
func (p *RedisStreamPublisher) CreateConsumerGroup(ctx context.Context, group string) error {
	err := p.client.XGroupCreateMkStream(ctx, p.stream, group, "0").Err()
	if err != nil && strings.Contains(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

// Read blocks up to block for new entries for consumer
func (p *RedisStreamPublisher) Read(ctx context.Context, group, consumer string, count int64, block time.Duration) ([]StreamMessage, error) {
	streams, err := p.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{p.stream, ">"},
		Count:    count,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}
	if len(streams) == 0 {
		return nil, nil
	}
	return decodeMessages(streams[0].Messages), nil
}

// Ack marks entries as processed for the group
func (p *RedisStreamPublisher) Ack(ctx context.Context, group string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return p.client.XAck(ctx, p.stream, group, ids...).Err()
}

// ClaimStale takes over entries pending longer than minIdle, typically left by a dead worker
func (p *RedisStreamPublisher) ClaimStale(ctx context.Context, group, consumer string, minIdle time.Duration) ([]StreamMessage, error) {
	pending, err := p.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: p.stream,
		Group:  group,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get pending messages: %w", err)
	}

	var staleIDs []string
	for _, entry := range pending {
		if entry.Idle >= minIdle {
			staleIDs = append(staleIDs, entry.ID)
		}
	}
	if len(staleIDs) == 0 {
		return nil, nil
	}

	messages, err := p.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   p.stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Messages: staleIDs,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to claim stale messages: %w", err)
	}
	return decodeMessages(messages), nil
}

// Stats returns the stream length and the number of entries pending for group
func (p *RedisStreamPublisher) Stats(ctx context.Context, group string) (int64, int64, error) {
	length, err := p.client.XLen(ctx, p.stream).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get stream length: %w", err)
	}

	pending, err := p.client.XPending(ctx, p.stream, group).Result()
	if err != nil {
		if strings.Contains(err.Error(), "NOGROUP") {
			return length, 0, nil
		}
		return length, 0, fmt.Errorf("failed to get pending count: %w", err)
	}
	return length, pending.Count, nil
}

func decodeMessages(messages []redis.XMessage) []StreamMessage {
	out := make([]StreamMessage, 0, len(messages))
	for _, msg := range messages {
		evt, err := DecodeStreamValues(msg.Values)
		if err != nil {
			logging.Warn("Skipping malformed stream entry",
				"message_id", msg.ID,
				"error", err.Error(),
			)
			out = append(out, StreamMessage{ID: msg.ID})
			continue
		}
		out = append(out, StreamMessage{ID: msg.ID, Event: evt})
	}
	return out
}

// DecodeStreamValues parses the data field written by Publish
func DecodeStreamValues(values map[string]interface{}) (*FlightEvent, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, errors.New("invalid message format: data field missing")
	}

	var evt FlightEvent
	if err := json.Unmarshal([]byte(dataStr), &evt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flight event: %w", err)
	}
	return &evt, nil
}
