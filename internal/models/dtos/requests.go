package dtos

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/models/gorm"
)

const (
	MaxDelayMinutes         = 1440
	MinCancellationReason   = 5
	DefaultFlightsPageLimit = 50
	MaxFlightsPageLimit     = 100
	MaxFlightsPage          = 10000
	MaxAircraftTypeLength   = 50
)

// CreateFlightReq is the body of POST /api/v1/flights
type CreateFlightReq struct {
	FlightNumber       string    `json:"flightNumber"`
	AirlineID          string    `json:"airlineId"`
	AircraftType       *string   `json:"aircraftType,omitempty"`
	DepartureAirportID string    `json:"departureAirportId"`
	ArrivalAirportID   string    `json:"arrivalAirportId"`
	ScheduledDeparture time.Time `json:"scheduledDeparture"`
	ScheduledArrival   time.Time `json:"scheduledArrival"`
	Remarks            *string   `json:"remarks,omitempty"`
}

// Normalize trims and upper-cases the flight number and drops blank optionals
func (r *CreateFlightReq) Normalize() {
	r.FlightNumber = strings.ToUpper(strings.TrimSpace(r.FlightNumber))
	r.AircraftType = trimOptional(r.AircraftType)
	r.Remarks = trimOptional(r.Remarks)
}

func (r *CreateFlightReq) Validate() error {
	if !gorm.IsFlightNumber(r.FlightNumber) {
		return fmt.Errorf("flightNumber %q must be 2-3 letters or digits followed by 1-4 digits", r.FlightNumber)
	}
	if r.AirlineID == "" || r.DepartureAirportID == "" || r.ArrivalAirportID == "" {
		return errors.New("airlineId, departureAirportId and arrivalAirportId are required")
	}
	if r.ScheduledDeparture.IsZero() || r.ScheduledArrival.IsZero() {
		return errors.New("scheduledDeparture and scheduledArrival must be RFC3339 timestamps")
	}
	return validateAircraftType(r.AircraftType)
}

// UpdateFlightReq is the body of PATCH /api/v1/flights/{id}. Only schedule,
// aircraft type and remarks are editable here.
type UpdateFlightReq struct {
	ScheduledDeparture *time.Time `json:"scheduledDeparture,omitempty"`
	ScheduledArrival   *time.Time `json:"scheduledArrival,omitempty"`
	AircraftType       *string    `json:"aircraftType,omitempty"`
	Remarks            *string    `json:"remarks,omitempty"`
}

func (r *UpdateFlightReq) Validate() error {
	return validateAircraftType(r.AircraftType)
}

func (r *UpdateFlightReq) ToPatch() gorm.FlightPatch {
	return gorm.FlightPatch{
		ScheduledDeparture: r.ScheduledDeparture,
		ScheduledArrival:   r.ScheduledArrival,
		AircraftType:       r.AircraftType,
		Remarks:            r.Remarks,
	}
}

// ChangeStatusReq is the body of PATCH /api/v1/flights/{id}/status
type ChangeStatusReq struct {
	Status          string     `json:"status"`
	ActualDeparture *time.Time `json:"actualDeparture,omitempty"`
	ActualArrival   *time.Time `json:"actualArrival,omitempty"`
	Remarks         *string    `json:"remarks,omitempty"`
}

func (r *ChangeStatusReq) Validate() error {
	if !constants.FlightStatus(r.Status).IsValid() {
		return fmt.Errorf("status must be one of %v", constants.AllFlightStatuses)
	}
	return nil
}

// Extra returns the fields recorded alongside the status change
func (r *ChangeStatusReq) Extra() gorm.FlightPatch {
	return gorm.FlightPatch{
		ActualDeparture: r.ActualDeparture,
		ActualArrival:   r.ActualArrival,
		Remarks:         r.Remarks,
	}
}

// CancelFlightReq is the body of POST /api/v1/flights/{id}/cancel
type CancelFlightReq struct {
	Reason string `json:"reason"`
}

func (r *CancelFlightReq) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(r.Reason)) < MinCancellationReason {
		return fmt.Errorf("reason must be at least %d characters", MinCancellationReason)
	}
	return nil
}

// DelayFlightReq is the body of POST /api/v1/flights/{id}/delay
type DelayFlightReq struct {
	Minutes int `json:"minutes"`
}

func (r *DelayFlightReq) Validate() error {
	if r.Minutes < 1 || r.Minutes > MaxDelayMinutes {
		return fmt.Errorf("minutes must be between 1 and %d", MaxDelayMinutes)
	}
	return nil
}

// FlightFilter narrows GET /api/v1/flights
type FlightFilter struct {
	AirportID  string
	FlightType string
	Status     string
	Date       *time.Time
	Search     string
	Page       int
	Limit      int
}

// Normalize applies paging defaults and bounds
func (f *FlightFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultFlightsPageLimit
	}
	if f.Limit > MaxFlightsPageLimit {
		f.Limit = MaxFlightsPageLimit
	}
	if f.Page > MaxFlightsPage {
		f.Page = MaxFlightsPage
	}
	f.Search = strings.TrimSpace(f.Search)
}

// Offset is the row offset of the requested page
func (f *FlightFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// aircraft_type is varchar(50)
func validateAircraftType(s *string) error {
	if s != nil && utf8.RuneCountInString(*s) > MaxAircraftTypeLength {
		return fmt.Errorf("aircraftType must be at most %d characters", MaxAircraftTypeLength)
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
