package gorm

import "time"

// Airline is reference data managed outside the flight engine
type Airline struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Code      string    `gorm:"column:code;type:varchar(2);not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"column:name;type:text;not null" json:"name"`
	Logo      *string   `gorm:"column:logo;type:text" json:"logo"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true;index" json:"isActive"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Airline) TableName() string {
	return "airlines"
}
