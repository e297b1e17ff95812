package repositories

import (
	"context"

	"airport-ops/tarmac/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FlightLogRepository stores persisted flight events
type FlightLogRepository struct {
	db *gormlib.DB
}

// NewFlightLogRepository creates a new flight log repository
func NewFlightLogRepository(db *gormlib.DB) *FlightLogRepository {
	return &FlightLogRepository{db: db}
}

// Insert stores a log entry. Redelivered events with a known event id are ignored.
func (r *FlightLogRepository) Insert(ctx context.Context, entry *gorm.FlightLog) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(entry).Error
}

// ListByFlight returns the newest entries for a flight first
func (r *FlightLogRepository) ListByFlight(ctx context.Context, flightID string, limit int) ([]gorm.FlightLog, error) {
	var logs []gorm.FlightLog
	err := r.db.WithContext(ctx).
		Where("flight_id = ?", flightID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
