package repositories

import (
	"context"
	"errors"

	"airport-ops/tarmac/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// AirportRepository handles airport table operations
type AirportRepository struct {
	db *gormlib.DB
}

// NewAirportRepository creates a new airport repository
func NewAirportRepository(db *gormlib.DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// FindByID finds an airport by id, nil when missing
func (r *AirportRepository) FindByID(ctx context.Context, id string) (*gorm.Airport, error) {
	var airport gorm.Airport

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&airport).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &airport, nil
}

// ListActive returns active airports ordered by code
func (r *AirportRepository) ListActive(ctx context.Context) ([]gorm.Airport, error) {
	var airports []gorm.Airport
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&airports).Error
	return airports, err
}
