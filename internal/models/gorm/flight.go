package gorm

import (
	"fmt"
	"regexp"
	"time"

	"airport-ops/tarmac/internal/constants"

	gormlib "gorm.io/gorm"
)

// MinBlockTime is the shortest allowed gap between scheduled departure and arrival
const MinBlockTime = 15 * time.Minute

var flightNumberPattern = regexp.MustCompile(`^[A-Z0-9]{2,3}\d{1,4}$`)

// Flight is one view of a physical flight leg. Every leg is stored twice,
// once per airport, and the two records point at each other through TwinID.
type Flight struct {
	ID                 string                 `gorm:"column:id;primaryKey;type:uuid" db:"id" bson:"_id" json:"id"`
	FlightNumber       string                 `gorm:"column:flight_number;type:varchar(8);not null;index:idx_flights_number_sched,priority:1" db:"flight_number" bson:"flightNumber" json:"flightNumber"`
	AirlineID          string                 `gorm:"column:airline_id;type:uuid;not null" db:"airline_id" bson:"airlineId" json:"airlineId"`
	AircraftType       *string                `gorm:"column:aircraft_type;type:varchar(50)" db:"aircraft_type" bson:"aircraftType" json:"aircraftType"`
	DepartureAirportID string                 `gorm:"column:departure_airport_id;type:uuid;not null;index:idx_flights_dep_sched,priority:1" db:"departure_airport_id" bson:"departureAirportId" json:"departureAirportId"`
	ArrivalAirportID   string                 `gorm:"column:arrival_airport_id;type:uuid;not null;index:idx_flights_arr_sched,priority:1" db:"arrival_airport_id" bson:"arrivalAirportId" json:"arrivalAirportId"`
	ScheduledDeparture time.Time              `gorm:"column:scheduled_departure;not null;index:idx_flights_dep_sched,priority:2;index:idx_flights_number_sched,priority:2" db:"scheduled_departure" bson:"scheduledDeparture" json:"scheduledDeparture"`
	ScheduledArrival   time.Time              `gorm:"column:scheduled_arrival;not null;index:idx_flights_arr_sched,priority:2" db:"scheduled_arrival" bson:"scheduledArrival" json:"scheduledArrival"`
	ActualDeparture    *time.Time             `gorm:"column:actual_departure" db:"actual_departure" bson:"actualDeparture" json:"actualDeparture"`
	ActualArrival      *time.Time             `gorm:"column:actual_arrival" db:"actual_arrival" bson:"actualArrival" json:"actualArrival"`
	Status             constants.FlightStatus `gorm:"column:status;type:varchar(20);not null;default:'scheduled';index" db:"status" bson:"status" json:"status"`
	FlightType         constants.FlightType   `gorm:"column:flight_type;type:varchar(10);not null" db:"flight_type" bson:"flightType" json:"flightType"`
	TwinID             *string                `gorm:"column:twin_id;type:uuid;index" db:"twin_id" bson:"twinId" json:"twinId"`
	DelayMinutes       int                    `gorm:"column:delay_minutes;not null;default:0" db:"delay_minutes" bson:"delayMinutes" json:"delayMinutes"`
	CancellationReason *string                `gorm:"column:cancellation_reason;type:text" db:"cancellation_reason" bson:"cancellationReason" json:"cancellationReason"`
	Remarks            *string                `gorm:"column:remarks;type:text" db:"remarks" bson:"remarks" json:"remarks"`
	CreatedBy          string                 `gorm:"column:created_by;type:varchar(64);not null" db:"created_by" bson:"createdBy" json:"createdBy"`
	CreatedAtAirport   string                 `gorm:"column:created_at_airport;type:uuid;not null" db:"created_at_airport" bson:"createdAtAirport" json:"createdAtAirport"`
	IsArchived         bool                   `gorm:"column:is_archived;not null;default:false;index" db:"is_archived" bson:"isArchived" json:"isArchived"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime" db:"created_at" bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time              `gorm:"column:updated_at;autoUpdateTime" db:"updated_at" bson:"updatedAt" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Flight) TableName() string {
	return "flights"
}

// InvariantError reports a record-level invariant violated by a write
type InvariantError struct {
	Code    string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Validate checks the invariants every persisted flight must satisfy
func (f *Flight) Validate() error {
	if !flightNumberPattern.MatchString(f.FlightNumber) {
		return &InvariantError{Code: constants.ErrCodeInvalidFlightNumber, Message: fmt.Sprintf("invalid flight number %q", f.FlightNumber)}
	}
	if f.DepartureAirportID == f.ArrivalAirportID {
		return &InvariantError{Code: constants.ErrCodeSameAirport, Message: "departure and arrival airports must differ"}
	}
	if f.ScheduledArrival.Sub(f.ScheduledDeparture) < MinBlockTime {
		return &InvariantError{Code: constants.ErrCodeScheduleTooShort, Message: "arrival must be at least 15 minutes after departure"}
	}
	if f.DelayMinutes < 0 {
		return &InvariantError{Code: constants.ErrCodeInvalidDelay, Message: "delay cannot be negative"}
	}
	if !f.Status.IsValid() {
		return &InvariantError{Code: constants.ErrCodeInvalidStatus, Message: fmt.Sprintf("unknown status %q", f.Status)}
	}
	if !f.FlightType.IsValid() {
		return &InvariantError{Code: constants.ErrCodeInvalidStatus, Message: fmt.Sprintf("unknown flight type %q", f.FlightType)}
	}
	return nil
}

// BeforeSave runs the record invariants on every full write
func (f *Flight) BeforeSave(tx *gormlib.DB) error {
	return f.Validate()
}

// IsFlightNumber reports whether s is a well-formed, already normalized flight number
func IsFlightNumber(s string) bool {
	return flightNumberPattern.MatchString(s)
}
