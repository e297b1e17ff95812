package gorm

import "time"

// FlightLog is one persisted flight event, written by the audit worker
type FlightLog struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	EventID   string    `gorm:"column:event_id;type:uuid;not null;uniqueIndex"`
	Action    string    `gorm:"column:action;type:varchar(50);not null;index:idx_flight_logs_action_ts,priority:1"`
	FlightID  string    `gorm:"column:flight_id;type:uuid;not null;index"`
	TwinID    *string   `gorm:"column:twin_id;type:uuid"`
	ActorID   *string   `gorm:"column:actor_id;type:varchar(64);index:idx_flight_logs_actor_ts,priority:1"`
	AirportID *string   `gorm:"column:airport_id;type:uuid"`
	Details   JSONB     `gorm:"column:details;type:jsonb"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index:idx_flight_logs_action_ts,priority:2;index:idx_flight_logs_actor_ts,priority:2"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (FlightLog) TableName() string {
	return "flight_logs"
}
