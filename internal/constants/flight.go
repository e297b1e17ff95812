package constants

import (
	"database/sql/driver"
	"fmt"
)

// FlightStatus mirrors the status column of the flights table
type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusBoarding  FlightStatus = "boarding"
	FlightStatusDeparted  FlightStatus = "departed"
	FlightStatusInAir     FlightStatus = "in_air"
	FlightStatusLanded    FlightStatus = "landed"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusCancelled FlightStatus = "cancelled"
)

// AllFlightStatuses lists every status in lifecycle order
var AllFlightStatuses = []FlightStatus{
	FlightStatusScheduled,
	FlightStatusBoarding,
	FlightStatusDeparted,
	FlightStatusInAir,
	FlightStatusLanded,
	FlightStatusDelayed,
	FlightStatusCancelled,
}

func (s FlightStatus) String() string { return string(s) }

// IsValid reports whether s is one of the known statuses
func (s FlightStatus) IsValid() bool {
	for _, known := range AllFlightStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// HasLeft reports whether the aircraft has physically left the gate
func (s FlightStatus) HasLeft() bool {
	return s == FlightStatusDeparted || s == FlightStatusInAir || s == FlightStatusLanded
}

// Scan implements the sql.Scanner interface
func (s *FlightStatus) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = FlightStatus(v)
	case []byte:
		*s = FlightStatus(v)
	default:
		return fmt.Errorf("FlightStatus: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s FlightStatus) Value() (driver.Value, error) { return string(s), nil }

// FlightType tags which airport's view a flight record represents
type FlightType string

const (
	FlightTypeDeparture FlightType = "departure"
	FlightTypeArrival   FlightType = "arrival"
)

func (t FlightType) String() string { return string(t) }

func (t FlightType) IsValid() bool {
	return t == FlightTypeDeparture || t == FlightTypeArrival
}

// Scan implements the sql.Scanner interface
func (t *FlightType) Scan(src interface{}) error {
	if src == nil {
		*t = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*t = FlightType(v)
	case []byte:
		*t = FlightType(v)
	default:
		return fmt.Errorf("FlightType: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (t FlightType) Value() (driver.Value, error) { return string(t), nil }
