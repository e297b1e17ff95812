package gorm

import "time"

// Airport is reference data managed outside the flight engine; it is only read here
type Airport struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Code      string    `gorm:"column:code;type:varchar(3);not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"column:name;type:text;not null" json:"name"`
	City      string    `gorm:"column:city;type:varchar(100)" json:"city"`
	Region    string    `gorm:"column:region;type:varchar(100)" json:"region"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true;index" json:"isActive"`
	IsCentral bool      `gorm:"column:is_central;not null;default:false" json:"isCentral"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Airport) TableName() string {
	return "airports"
}
