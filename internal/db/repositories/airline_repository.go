package repositories

import (
	"context"
	"errors"

	"airport-ops/tarmac/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// AirlineRepository handles airline table operations
type AirlineRepository struct {
	db *gormlib.DB
}

// NewAirlineRepository creates a new airline repository
func NewAirlineRepository(db *gormlib.DB) *AirlineRepository {
	return &AirlineRepository{db: db}
}

// FindByID finds an airline by id, nil when missing
func (r *AirlineRepository) FindByID(ctx context.Context, id string) (*gorm.Airline, error) {
	var airline gorm.Airline

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&airline).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &airline, nil
}

// ListActive returns active airlines ordered by code
func (r *AirlineRepository) ListActive(ctx context.Context) ([]gorm.Airline, error) {
	var airlines []gorm.Airline
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("code ASC").Find(&airlines).Error
	return airlines, err
}
