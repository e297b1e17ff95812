package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"airport-ops/tarmac/internal/models/dtos"
	"airport-ops/tarmac/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// ErrFlightMissing is returned by Save when the flight row no longer exists
var ErrFlightMissing = errors.New("flight record does not exist")

// FlightRepository is the GORM-backed flight record store
type FlightRepository struct {
	db *gormlib.DB
}

// NewFlightRepository creates a new flight repository
func NewFlightRepository(db *gormlib.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// FindByID returns the flight or nil when it does not exist
func (r *FlightRepository) FindByID(ctx context.Context, id string) (*gorm.Flight, error) {
	var flight gorm.Flight

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&flight).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &flight, nil
}

// FindByTwinID returns the flight whose twin is twinID, or nil
func (r *FlightRepository) FindByTwinID(ctx context.Context, twinID string) (*gorm.Flight, error) {
	var flight gorm.Flight

	err := r.db.WithContext(ctx).Where("twin_id = ?", twinID).First(&flight).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &flight, nil
}

// FindByNumberInRange returns any flight with the given number scheduled to
// depart in [from, to), or nil
func (r *FlightRepository) FindByNumberInRange(ctx context.Context, number string, from, to time.Time) (*gorm.Flight, error) {
	var flight gorm.Flight

	err := r.db.WithContext(ctx).
		Where("flight_number = ? AND scheduled_departure >= ? AND scheduled_departure < ?", number, from, to).
		First(&flight).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &flight, nil
}

// CreatePair inserts both twins in one transaction
func (r *FlightRepository) CreatePair(ctx context.Context, departure, arrival *gorm.Flight) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		if err := tx.Create(departure).Error; err != nil {
			return err
		}
		return tx.Create(arrival).Error
	})
}

// Save writes every column of an existing flight; the model hooks validate it.
// It never inserts: a flight that vanished meanwhile yields ErrFlightMissing.
func (r *FlightRepository) Save(ctx context.Context, flight *gorm.Flight) error {
	res := r.db.WithContext(ctx).Model(flight).Select("*").Updates(flight)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFlightMissing
	}
	return nil
}

// Patch writes only the patched columns and skips model hooks. It reports
// false when no row has the id.
func (r *FlightRepository) Patch(ctx context.Context, id string, patch gorm.FlightPatch) (bool, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return true, nil
	}

	res := r.db.WithContext(ctx).
		Session(&gormlib.Session{SkipHooks: true}).
		Model(&gorm.Flight{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return false, fmt.Errorf("failed to patch flight %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a flight and reports whether a row was removed
func (r *FlightRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gorm.Flight{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List is the GORM rendition of FlightQueryRepository.List, used when the
// database is not Postgres
func (r *FlightRepository) List(ctx context.Context, filter dtos.FlightFilter) ([]gorm.Flight, int, error) {
	filter.Normalize()

	q := r.db.WithContext(ctx).Model(&gorm.Flight{}).Where("is_archived = ?", false)
	if filter.AirportID != "" {
		q = q.Where("departure_airport_id = ? OR arrival_airport_id = ?", filter.AirportID, filter.AirportID)
	}
	if filter.FlightType != "" {
		q = q.Where("flight_type = ?", filter.FlightType)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != nil {
		start, end := dayRange(*filter.Date)
		q = q.Where("scheduled_departure >= ? AND scheduled_departure < ?", start, end)
	}
	if filter.Search != "" {
		q = q.Where("UPPER(flight_number) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToUpper(filter.Search))+"%")
	}

	// Count and Find each work on their own copy of the conditions
	q = q.Session(&gormlib.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count flights: %w", err)
	}

	flights := []gorm.Flight{}
	if total == 0 {
		return flights, 0, nil
	}
	err := q.Order("scheduled_departure ASC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Find(&flights).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flights: %w", err)
	}
	return flights, int(total), nil
}
