package jobs

import (
	"context"
	"fmt"
	"time"

	"airport-ops/tarmac/internal/logging"
	gormModels "airport-ops/tarmac/internal/models/gorm"
)

// ActiveAirports lists the airports worth caching
type ActiveAirports interface {
	ListActive(ctx context.Context) ([]gormModels.Airport, error)
}

// ActiveAirlines lists the airlines worth caching
type ActiveAirlines interface {
	ListActive(ctx context.Context) ([]gormModels.Airline, error)
}

// ReferenceCache receives the loaded records
type ReferenceCache interface {
	Warm(airports []gormModels.Airport, airlines []gormModels.Airline)
}

// ReferenceWarmJob preloads airport and airline display data so flight
// responses rarely hit the reference tables
type ReferenceWarmJob struct {
	airports ActiveAirports
	airlines ActiveAirlines
	cache    ReferenceCache
}

// NewReferenceWarmJob creates a new reference warm job instance
func NewReferenceWarmJob(airports ActiveAirports, airlines ActiveAirlines, cache ReferenceCache) *ReferenceWarmJob {
	return &ReferenceWarmJob{
		airports: airports,
		airlines: airlines,
		cache:    cache,
	}
}

// Run loads every active airport and airline into the cache once
func (j *ReferenceWarmJob) Run(ctx context.Context) error {
	start := time.Now()

	airports, err := j.airports.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active airports: %w", err)
	}
	airlines, err := j.airlines.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active airlines: %w", err)
	}

	j.cache.Warm(airports, airlines)

	logging.Info("Reference cache warmed",
		"airports", len(airports),
		"airlines", len(airlines),
		"duration", time.Since(start).String(),
	)
	return nil
}

// RunScheduled runs the job now and then every interval until ctx is cancelled.
// Failed runs are logged; the next tick tries again.
func (j *ReferenceWarmJob) RunScheduled(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		logging.Warn("Initial reference warm failed", "error", err.Error())
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Warn("Scheduled reference warm failed", "error", err.Error())
			}
		case <-ctx.Done():
			logging.Info("Shutting down reference warm job")
			return nil
		}
	}
}
