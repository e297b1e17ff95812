package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"airport-ops/tarmac/internal/common"
	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/metrics"
	"airport-ops/tarmac/internal/models/dtos"
	gormModels "airport-ops/tarmac/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAirports struct {
	airports map[string]*gormModels.Airport
	calls    int
	err      error
}

func (c *countingAirports) FindByID(_ context.Context, id string) (*gormModels.Airport, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.airports[id], nil
}

type staticAirlines map[string]*gormModels.Airline

func (s staticAirlines) FindByID(_ context.Context, id string) (*gormModels.Airline, error) {
	return s[id], nil
}

func TestReferenceValidator(t *testing.T) {
	airports := &countingAirports{airports: map[string]*gormModels.Airport{
		airportMLE:    {ID: airportMLE, Code: "MLE", IsActive: true},
		airportClosed: {ID: airportClosed, Code: "KDO", IsActive: false},
	}}
	airlines := staticAirlines{airlineMaldiv: {ID: airlineMaldiv, Code: "Q2", IsActive: true}}
	v := NewReferenceValidator(airports, airlines)
	ctx := context.Background()

	got, err := v.CheckAirport(ctx, airportMLE, "departure")
	require.NoError(t, err)
	assert.Equal(t, "MLE", got.Code)

	_, err = v.CheckAirport(ctx, airportClosed, "arrival")
	assert.True(t, errors.Is(err, ErrInactiveAirport))
	assert.Contains(t, err.Error(), "arrival")

	_, err = v.CheckAirport(ctx, airportUnknown, "departure")
	assert.True(t, errors.Is(err, ErrUnknownAirport))

	_, err = v.CheckAirline(ctx, airlineUnknown)
	assert.True(t, errors.Is(err, ErrUnknownAirline))

	airports.err = errors.New("db offline")
	_, err = v.CheckAirport(ctx, airportMLE, "departure")
	require.Error(t, err)
	assert.Equal(t, "", ErrorKind(err), "lookup failures are not validation errors")
}

func TestReferenceDirectory_CachesSummaries(t *testing.T) {
	airports := &countingAirports{airports: map[string]*gormModels.Airport{
		airportMLE: {ID: airportMLE, Code: "MLE", Name: "Velana International", City: "Male", IsActive: true},
		airportGAN: {ID: airportGAN, Code: "GAN", Name: "Gan International", City: "Addu", IsActive: true},
	}}
	airlines := staticAirlines{airlineMaldiv: {ID: airlineMaldiv, Code: "Q2", Name: "Maldivian", IsActive: true}}
	metricsReg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	dir := NewReferenceDirectory(airports, airlines, common.NewCacheService(time.Minute, time.Minute), time.Minute, metricsReg)
	ctx := context.Background()

	flight := &gormModels.Flight{
		ID:                 "f-1",
		AirlineID:          airlineMaldiv,
		DepartureAirportID: airportMLE,
		ArrivalAirportID:   airportGAN,
	}

	first := dir.Populate(ctx, flight)
	require.NotNil(t, first.DepartureAirport)
	assert.Equal(t, "Velana International", first.DepartureAirport.Name)
	assert.Equal(t, "Addu", first.ArrivalAirport.City)
	assert.Equal(t, "Maldivian", first.Airline.Name)

	second := dir.Populate(ctx, flight)
	assert.Equal(t, "GAN", second.ArrivalAirport.Code)
	assert.Equal(t, 2, airports.calls, "second populate is served from cache")

	prefix := string(constants.CachePrefixAirport)
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsReg.CacheHitsTotal.WithLabelValues(prefix)))
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsReg.CacheMissesTotal.WithLabelValues(prefix)))
}

func TestReferenceDirectory_DegradesOnLookupFailure(t *testing.T) {
	airports := &countingAirports{err: errors.New("db offline")}
	dir := NewReferenceDirectory(airports, staticAirlines{}, common.NewCacheService(time.Minute, time.Minute), time.Minute, nil)

	populated := dir.Populate(context.Background(), &gormModels.Flight{ID: "f-1", DepartureAirportID: airportMLE, ArrivalAirportID: airportGAN})
	require.NotNil(t, populated)
	assert.Nil(t, populated.DepartureAirport)
	assert.Nil(t, populated.ArrivalAirport)
	assert.Nil(t, populated.Airline)
	assert.Equal(t, "f-1", populated.ID)

	assert.Nil(t, dir.Populate(context.Background(), nil))
}

func TestCachedAs_AcceptsDecodedJSON(t *testing.T) {
	summary, ok := cachedAs[dtos.AirportSummary](map[string]interface{}{
		"id": airportGAN, "code": "GAN", "name": "Gan International", "city": "Addu",
	})
	require.True(t, ok)
	assert.Equal(t, "GAN", summary.Code)

	direct := &dtos.AirportSummary{Code: "MLE"}
	got, ok := cachedAs[dtos.AirportSummary](direct)
	require.True(t, ok)
	assert.Same(t, direct, got)

	_, ok = cachedAs[dtos.AirportSummary]("stale string")
	assert.False(t, ok)
}

func TestReferenceDirectory_Warm(t *testing.T) {
	airports := &countingAirports{}
	dir := NewReferenceDirectory(airports, staticAirlines{}, common.NewCacheService(time.Minute, time.Minute), time.Minute, nil)

	dir.Warm(
		[]gormModels.Airport{{ID: airportMLE, Code: "MLE", Name: "Velana International", City: "Male"}},
		[]gormModels.Airline{{ID: airlineMaldiv, Code: "Q2", Name: "Maldivian"}},
	)

	ctx := context.Background()
	airport := dir.Airport(ctx, airportMLE)
	require.NotNil(t, airport)
	assert.Equal(t, "Male", airport.City)
	airline := dir.Airline(ctx, airlineMaldiv)
	require.NotNil(t, airline)
	assert.Equal(t, "Q2", airline.Code)
	assert.Equal(t, 0, airports.calls)
}

func TestReferenceDirectory_ReplacesUnreadableEntry(t *testing.T) {
	airports := &countingAirports{airports: map[string]*gormModels.Airport{
		airportGAN: {ID: airportGAN, Code: "GAN", Name: "Gan International", City: "Addu"},
	}}
	cache := common.NewCacheService(time.Minute, time.Minute)
	cache.Set(string(constants.CachePrefixAirport)+airportGAN, "stale string", time.Minute)
	dir := NewReferenceDirectory(airports, staticAirlines{}, cache, time.Minute, nil)

	got := dir.Airport(context.Background(), airportGAN)
	require.NotNil(t, got)
	assert.Equal(t, "GAN", got.Code)
	assert.Equal(t, 1, airports.calls)

	assert.Nil(t, dir.Airport(context.Background(), airportUnknown))
	_, cached := cache.Get(string(constants.CachePrefixAirport) + airportUnknown)
	assert.False(t, cached, "missing records are not cached")
}
