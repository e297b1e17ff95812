package workers

import (
	"context"
	"time"

	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/logging"
	"airport-ops/tarmac/internal/metrics"
)

// StreamStats reports the size of the flight event stream
type StreamStats interface {
	Stats(ctx context.Context, group string) (length int64, pending int64, err error)
}

// FlightStreamMonitor logs and exports the backlog of the audit stream
type FlightStreamMonitor struct {
	stream     StreamStats
	metricsReg *metrics.MetricsRegistry
}

// NewFlightStreamMonitor creates a new stream monitor
func NewFlightStreamMonitor(stream StreamStats, metricsReg *metrics.MetricsRegistry) *FlightStreamMonitor {
	return &FlightStreamMonitor{stream: stream, metricsReg: metricsReg}
}

// Run checks the stream every interval until ctx is cancelled
func (m *FlightStreamMonitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *FlightStreamMonitor) check(ctx context.Context) {
	length, pending, err := m.stream.Stats(ctx, constants.FlightEventGroup)
	if err != nil {
		logging.Warn("Failed to read flight stream stats", "error", err.Error())
		return
	}
	if m.metricsReg != nil {
		m.metricsReg.FlightStreamPending.Set(float64(pending))
	}
	if pending > 100 {
		logging.Warn("Flight event backlog is growing", "stream_length", length, "pending", pending)
		return
	}
	logging.Debug("Flight event stream", "stream_length", length, "pending", pending)
}
