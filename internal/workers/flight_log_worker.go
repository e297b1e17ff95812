package workers

import (
	"context"
	"fmt"
	"time"

	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/events"
	"airport-ops/tarmac/internal/logging"
	"airport-ops/tarmac/internal/metrics"
	gormModels "airport-ops/tarmac/internal/models/gorm"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// EventStream is the consumer side of the flight event stream
type EventStream interface {
	CreateConsumerGroup(ctx context.Context, group string) error
	Read(ctx context.Context, group, consumer string, count int64, block time.Duration) ([]events.StreamMessage, error)
	Ack(ctx context.Context, group string, ids ...string) error
	ClaimStale(ctx context.Context, group, consumer string, minIdle time.Duration) ([]events.StreamMessage, error)
}

// FlightLogStore persists audit entries; inserts must be idempotent on event id
type FlightLogStore interface {
	Insert(ctx context.Context, entry *gormModels.FlightLog) error
}

// FlightLogWorker drains the flight event stream into flight_logs
type FlightLogWorker struct {
	workerID   string
	stream     EventStream
	logs       FlightLogStore
	metricsReg *metrics.MetricsRegistry

	batchSize     int64
	block         time.Duration
	claimInterval time.Duration
	claimMinIdle  time.Duration
	backoff       time.Duration
}

// NewFlightLogWorker creates a new flight log worker
func NewFlightLogWorker(workerID string, stream EventStream, logs FlightLogStore, metricsReg *metrics.MetricsRegistry) *FlightLogWorker {
	return &FlightLogWorker{
		workerID:      workerID,
		stream:        stream,
		logs:          logs,
		metricsReg:    metricsReg,
		batchSize:     10,
		block:         5 * time.Second,
		claimInterval: time.Minute,
		claimMinIdle:  5 * time.Minute,
		backoff:       time.Second,
	}
}

// Run starts numWorkers consumers plus the stale-entry reclaimer and blocks
// until ctx is cancelled
func (w *FlightLogWorker) Run(ctx context.Context, numWorkers int) error {
	if err := w.stream.CreateConsumerGroup(ctx, constants.FlightEventGroup); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	logging.Info("Flight log worker starting", "worker_id", w.workerID, "consumers", numWorkers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		consumer := fmt.Sprintf("%s-%d", w.workerID, i)
		g.Go(func() error {
			w.consume(gctx, consumer)
			return nil
		})
	}
	g.Go(func() error {
		w.reclaim(gctx, w.workerID+"-reclaimer")
		return nil
	})

	err := g.Wait()
	logging.Info("Flight log worker stopped", "worker_id", w.workerID)
	return err
}

func (w *FlightLogWorker) consume(ctx context.Context, consumer string) {
	processed, failed := 0, 0
	for {
		select {
		case <-ctx.Done():
			logging.Info("Flight log consumer shutting down",
				"consumer", consumer,
				"processed", processed,
				"errors", failed,
			)
			return
		default:
		}

		messages, err := w.stream.Read(ctx, constants.FlightEventGroup, consumer, w.batchSize, w.block)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logging.Warn("Failed to read flight events", "consumer", consumer, "error", err.Error())
			sleepCtx(ctx, w.backoff)
			continue
		}

		ok, bad := w.handle(ctx, consumer, messages)
		processed += ok
		failed += bad
	}
}

func (w *FlightLogWorker) reclaim(ctx context.Context, consumer string) {
	ticker := time.NewTicker(w.claimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			messages, err := w.stream.ClaimStale(ctx, constants.FlightEventGroup, consumer, w.claimMinIdle)
			if err != nil {
				logging.Warn("Failed to claim stale flight events", "error", err.Error())
				continue
			}
			if len(messages) > 0 {
				logging.Info("Reclaimed stale flight events", "count", len(messages))
				w.handle(ctx, consumer, messages)
			}
		}
	}
}

// handle persists and acknowledges a batch. Entries that fail to persist stay
// pending so the reclaimer retries them; malformed entries are dropped.
func (w *FlightLogWorker) handle(ctx context.Context, consumer string, messages []events.StreamMessage) (int, int) {
	var acked []string
	processed, failed := 0, 0

	for _, msg := range messages {
		if msg.Event == nil {
			acked = append(acked, msg.ID)
			failed++
			continue
		}
		if err := w.logs.Insert(ctx, ToFlightLog(msg.Event)); err != nil {
			logging.Error("Failed to persist flight event",
				"consumer", consumer,
				"message_id", msg.ID,
				"event_id", msg.Event.ID,
				"error", err.Error(),
			)
			failed++
			continue
		}
		acked = append(acked, msg.ID)
		processed++
		if w.metricsReg != nil {
			w.metricsReg.FlightLogsPersisted.Inc()
		}
	}

	if err := w.stream.Ack(ctx, constants.FlightEventGroup, acked...); err != nil {
		logging.Warn("Failed to acknowledge flight events", "consumer", consumer, "error", err.Error())
	}
	return processed, failed
}

// ToFlightLog maps a stream event onto its flight_logs row
func ToFlightLog(evt *events.FlightEvent) *gormModels.FlightLog {
	entry := &gormModels.FlightLog{
		ID:        uuid.NewString(),
		EventID:   evt.ID,
		Action:    evt.Action,
		FlightID:  evt.FlightID,
		TwinID:    evt.TwinID,
		Details:   make(gormModels.JSONB, len(evt.Details)+1),
		Timestamp: evt.OccurredAt,
	}
	for k, v := range evt.Details {
		entry.Details[k] = v
	}
	if evt.FlightNumber != "" {
		entry.Details["flight_number"] = evt.FlightNumber
	}
	if evt.ActorID != "" {
		actor := evt.ActorID
		entry.ActorID = &actor
	}
	if evt.AirportID != "" {
		airport := evt.AirportID
		entry.AirportID = &airport
	}
	return entry
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
