package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"airport-ops/tarmac/internal/common"
	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/logging"
	"airport-ops/tarmac/internal/metrics"
	"airport-ops/tarmac/internal/models/dtos"
	gormModels "airport-ops/tarmac/internal/models/gorm"
)

// AirportLookup resolves airports by id; nil, nil when missing
type AirportLookup interface {
	FindByID(ctx context.Context, id string) (*gormModels.Airport, error)
}

// AirlineLookup resolves airlines by id; nil, nil when missing
type AirlineLookup interface {
	FindByID(ctx context.Context, id string) (*gormModels.Airline, error)
}

// ReferenceValidator confirms that referenced airports and airlines exist
// and are active. It always reads the lookups directly.
type ReferenceValidator struct {
	airports AirportLookup
	airlines AirlineLookup
}

func NewReferenceValidator(airports AirportLookup, airlines AirlineLookup) *ReferenceValidator {
	return &ReferenceValidator{airports: airports, airlines: airlines}
}

// CheckAirport validates an airport reference; side names it in the message
func (v *ReferenceValidator) CheckAirport(ctx context.Context, id, side string) (*gormModels.Airport, error) {
	airport, err := v.airports.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s airport: %w", side, err)
	}
	if airport == nil {
		return nil, newFlightError(constants.ErrCodeUnknownAirport, "%s airport %s does not exist", side, id)
	}
	if !airport.IsActive {
		return nil, newFlightError(constants.ErrCodeInactiveAirport, "%s airport %s is not active", side, airport.Code)
	}
	return airport, nil
}

// CheckAirline validates an airline reference
func (v *ReferenceValidator) CheckAirline(ctx context.Context, id string) (*gormModels.Airline, error) {
	airline, err := v.airlines.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up airline: %w", err)
	}
	if airline == nil {
		return nil, newFlightError(constants.ErrCodeUnknownAirline, "airline %s does not exist", id)
	}
	if !airline.IsActive {
		return nil, newFlightError(constants.ErrCodeInactiveAirline, "airline %s is not active", airline.Code)
	}
	return airline, nil
}

// ReferenceDirectory resolves display data for flights through a TTL cache.
// Lookup failures degrade to an unpopulated field.
type ReferenceDirectory struct {
	airports   AirportLookup
	airlines   AirlineLookup
	cache      common.CacheInterface
	ttl        time.Duration
	metricsReg *metrics.MetricsRegistry
}

func NewReferenceDirectory(airports AirportLookup, airlines AirlineLookup, cache common.CacheInterface, ttl time.Duration, metricsReg *metrics.MetricsRegistry) *ReferenceDirectory {
	return &ReferenceDirectory{
		airports:   airports,
		airlines:   airlines,
		cache:      cache,
		ttl:        ttl,
		metricsReg: metricsReg,
	}
}

func (d *ReferenceDirectory) observe(prefix constants.CachePrefix, hit bool) {
	if d.metricsReg == nil {
		return
	}
	if hit {
		d.metricsReg.CacheHitsTotal.WithLabelValues(string(prefix)).Inc()
	} else {
		d.metricsReg.CacheMissesTotal.WithLabelValues(string(prefix)).Inc()
	}
}

// errReferenceMissing keeps a lookup miss out of the cache
var errReferenceMissing = errors.New("reference record missing")

// Airport returns the display summary of an airport, nil if it can't be resolved
func (d *ReferenceDirectory) Airport(ctx context.Context, id string) *dtos.AirportSummary {
	return resolve(d, constants.CachePrefixAirport, id, func() (*dtos.AirportSummary, error) {
		airport, err := d.airports.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if airport == nil {
			return nil, errReferenceMissing
		}
		return airportSummary(airport), nil
	})
}

// Airline returns the display summary of an airline, nil if it can't be resolved
func (d *ReferenceDirectory) Airline(ctx context.Context, id string) *dtos.AirlineSummary {
	return resolve(d, constants.CachePrefixAirline, id, func() (*dtos.AirlineSummary, error) {
		airline, err := d.airlines.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if airline == nil {
			return nil, errReferenceMissing
		}
		return airlineSummary(airline), nil
	})
}

// resolve reads a summary through the cache. An entry that no longer decodes
// is dropped and loaded again.
func resolve[T any](d *ReferenceDirectory, prefix constants.CachePrefix, id string, load func() (*T, error)) *T {
	key := string(prefix) + id
	for attempt := 0; attempt < 2; attempt++ {
		loaded := false
		v, err := d.cache.GetOrSet(key, d.ttl, func() (any, error) {
			loaded = true
			return load()
		})
		if err != nil {
			d.observe(prefix, false)
			if !errors.Is(err, errReferenceMissing) {
				logging.Warn("Failed to resolve reference data for display", "key", key, "error", err.Error())
			}
			return nil
		}
		if summary, ok := cachedAs[T](v); ok {
			d.observe(prefix, !loaded)
			return summary
		}
		d.cache.Delete(key)
	}
	return nil
}

// Warm stores display summaries ahead of any lookup
func (d *ReferenceDirectory) Warm(airports []gormModels.Airport, airlines []gormModels.Airline) {
	for i := range airports {
		d.cache.Set(string(constants.CachePrefixAirport)+airports[i].ID, airportSummary(&airports[i]), d.ttl)
	}
	for i := range airlines {
		d.cache.Set(string(constants.CachePrefixAirline)+airlines[i].ID, airlineSummary(&airlines[i]), d.ttl)
	}
}

func airportSummary(a *gormModels.Airport) *dtos.AirportSummary {
	return &dtos.AirportSummary{ID: a.ID, Code: a.Code, Name: a.Name, City: a.City}
}

func airlineSummary(a *gormModels.Airline) *dtos.AirlineSummary {
	return &dtos.AirlineSummary{ID: a.ID, Code: a.Code, Name: a.Name, Logo: a.Logo}
}

// cachedAs accepts both the in-memory cache, which keeps the pointer, and
// the Redis cache, which returns the decoded JSON object
func cachedAs[T any](v interface{}) (*T, bool) {
	switch c := v.(type) {
	case *T:
		return c, true
	case map[string]interface{}:
		raw, err := json.Marshal(c)
		if err != nil {
			return nil, false
		}
		var out T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, false
		}
		return &out, true
	}
	return nil, false
}

// Populate attaches airline and airport summaries to a copy of flight
func (d *ReferenceDirectory) Populate(ctx context.Context, flight *gormModels.Flight) *dtos.PopulatedFlight {
	if flight == nil {
		return nil
	}
	return &dtos.PopulatedFlight{
		Flight:           *flight,
		Airline:          d.Airline(ctx, flight.AirlineID),
		DepartureAirport: d.Airport(ctx, flight.DepartureAirportID),
		ArrivalAirport:   d.Airport(ctx, flight.ArrivalAirportID),
	}
}
