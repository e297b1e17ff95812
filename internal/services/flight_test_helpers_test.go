package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"airport-ops/tarmac/internal/common"
	"airport-ops/tarmac/internal/db/repositories"
	"airport-ops/tarmac/internal/events"
	"airport-ops/tarmac/internal/metrics"
	"airport-ops/tarmac/internal/models/dtos"
	gormModels "airport-ops/tarmac/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	airportMLE       = "11111111-1111-1111-1111-111111111111"
	airportGAN       = "22222222-2222-2222-2222-222222222222"
	airportClosed    = "33333333-3333-3333-3333-333333333333"
	airportUnknown   = "99999999-9999-9999-9999-999999999999"
	airlineMaldiv    = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	airlineDefunct   = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	airlineUnknown   = "cccccccc-cccc-cccc-cccc-cccccccccccc"
	testActorID      = "ops-1"
	testFlightNumber = "Q2101"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&gormModels.Airport{}, &gormModels.Airline{}, &gormModels.Flight{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	seed := []interface{}{
		&gormModels.Airport{ID: airportMLE, Code: "MLE", Name: "Velana International", City: "Male", IsActive: true},
		&gormModels.Airport{ID: airportGAN, Code: "GAN", Name: "Gan International", City: "Addu", IsActive: true},
		&gormModels.Airport{ID: airportClosed, Code: "KDO", Name: "Kadhdhoo", City: "Laamu", IsActive: true},
		&gormModels.Airline{ID: airlineMaldiv, Code: "Q2", Name: "Maldivian", IsActive: true},
		&gormModels.Airline{ID: airlineDefunct, Code: "ZZ", Name: "Defunct Air", IsActive: true},
	}
	for _, rec := range seed {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("Failed to seed: %v", err)
		}
	}
	// is_active has a DB default of true, so false must be written explicitly
	db.Model(&gormModels.Airport{}).Where("id = ?", airportClosed).Update("is_active", false)
	db.Model(&gormModels.Airline{}).Where("id = ?", airlineDefunct).Update("is_active", false)

	return db
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.FlightEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt *events.FlightEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Name() string { return "recording" }
func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

// faultyStore fails twin patches or deletes for chosen ids
type faultyStore struct {
	*repositories.FlightRepository
	failPatchFor  string
	failDeleteFor string
}

func (s *faultyStore) Patch(ctx context.Context, id string, patch gormModels.FlightPatch) (bool, error) {
	if id == s.failPatchFor {
		return false, errors.New("connection reset")
	}
	return s.FlightRepository.Patch(ctx, id, patch)
}

func (s *faultyStore) Delete(ctx context.Context, id string) (bool, error) {
	if id == s.failDeleteFor {
		return false, errors.New("connection reset")
	}
	return s.FlightRepository.Delete(ctx, id)
}

type testEnv struct {
	db         *gorm.DB
	repo       *repositories.FlightRepository
	store      *faultyStore
	publisher  *recordingPublisher
	metricsReg *metrics.MetricsRegistry
	svc        *FlightPairService
	now        time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)
	repo := repositories.NewFlightRepository(db)
	store := &faultyStore{FlightRepository: repo}
	airports := repositories.NewAirportRepository(db)
	airlines := repositories.NewAirlineRepository(db)
	metricsReg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	publisher := &recordingPublisher{}

	directory := NewReferenceDirectory(airports, airlines, common.NewCacheService(time.Minute, time.Minute), time.Minute, metricsReg)
	svc := NewFlightPairService(store, nil, NewReferenceValidator(airports, airlines), directory, publisher, metricsReg)

	now := time.Date(2024, 6, 1, 9, 12, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &testEnv{
		db:         db,
		repo:       repo,
		store:      store,
		publisher:  publisher,
		metricsReg: metricsReg,
		svc:        svc,
		now:        now,
	}
}

func validCreateReq() dtos.CreateFlightReq {
	return dtos.CreateFlightReq{
		FlightNumber:       testFlightNumber,
		AirlineID:          airlineMaldiv,
		DepartureAirportID: airportMLE,
		ArrivalAirportID:   airportGAN,
		ScheduledDeparture: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		ScheduledArrival:   time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
	}
}

// createPair stores a valid pair and returns the departure and arrival ids
func (e *testEnv) createPair(t *testing.T) (string, string) {
	t.Helper()
	pair, err := e.svc.CreatePair(context.Background(), validCreateReq(), testActorID, "")
	if err != nil {
		t.Fatalf("CreatePair failed: %v", err)
	}
	return pair.Departure.ID, pair.Arrival.ID
}

func (e *testEnv) load(t *testing.T, id string) *gormModels.Flight {
	t.Helper()
	f, err := e.repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	return f
}

func (e *testEnv) countFlights(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&gormModels.Flight{}).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

// assertTwinsInSync checks that the synchronized fields agree across the pair
func assertTwinsInSync(t *testing.T, a, b *gormModels.Flight) {
	t.Helper()
	if !a.ScheduledDeparture.Equal(b.ScheduledDeparture) || !a.ScheduledArrival.Equal(b.ScheduledArrival) {
		t.Errorf("scheduled times differ: %v/%v vs %v/%v", a.ScheduledDeparture, a.ScheduledArrival, b.ScheduledDeparture, b.ScheduledArrival)
	}
	if !timePtrEqual(a.ActualDeparture, b.ActualDeparture) || !timePtrEqual(a.ActualArrival, b.ActualArrival) {
		t.Errorf("actual times differ: %v/%v vs %v/%v", a.ActualDeparture, a.ActualArrival, b.ActualDeparture, b.ActualArrival)
	}
	if a.Status != b.Status {
		t.Errorf("status differs: %s vs %s", a.Status, b.Status)
	}
	if a.DelayMinutes != b.DelayMinutes {
		t.Errorf("delay differs: %d vs %d", a.DelayMinutes, b.DelayMinutes)
	}
	if !strPtrEqual(a.CancellationReason, b.CancellationReason) || !strPtrEqual(a.Remarks, b.Remarks) {
		t.Errorf("reason/remarks differ")
	}
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
