package jobs

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// JobsContainer holds the scheduled jobs of the server
type JobsContainer struct {
	ReferenceWarm *ReferenceWarmJob
}

// InitializeJobs builds the scheduled jobs
func InitializeJobs(airports ActiveAirports, airlines ActiveAirlines, cache ReferenceCache) *JobsContainer {
	return &JobsContainer{
		ReferenceWarm: NewReferenceWarmJob(airports, airlines, cache),
	}
}

// Start runs every job in g. The warm interval stays below the cache TTL so
// entries are refreshed before they expire.
func (c *JobsContainer) Start(ctx context.Context, g *errgroup.Group, cacheTTL time.Duration) {
	interval := cacheTTL / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	g.Go(func() error { return c.ReferenceWarm.RunScheduled(ctx, interval) })
}
