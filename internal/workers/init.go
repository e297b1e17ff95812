package workers

import (
	"context"
	"time"

	"airport-ops/tarmac/internal/events"
	"airport-ops/tarmac/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// WorkersContainer holds the background workers that follow the event stream
type WorkersContainer struct {
	FlightLogs *FlightLogWorker
	Monitor    *FlightStreamMonitor
}

// InitWorkers builds the audit workers on top of the redis event stream
func InitWorkers(stream *events.RedisStreamPublisher, logs FlightLogStore, metricsReg *metrics.MetricsRegistry) *WorkersContainer {
	return &WorkersContainer{
		FlightLogs: NewFlightLogWorker("flight-log", stream, logs, metricsReg),
		Monitor:    NewFlightStreamMonitor(stream, metricsReg),
	}
}

// Start runs every worker in g until ctx is cancelled
func (c *WorkersContainer) Start(ctx context.Context, g *errgroup.Group, consumers int) {
	g.Go(func() error { return c.FlightLogs.Run(ctx, consumers) })
	g.Go(func() error { return c.Monitor.Run(ctx, 30*time.Second) })
}
