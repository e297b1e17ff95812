package dtos

import (
	"time"

	"airport-ops/tarmac/internal/models/gorm"
)

// --- Controller endpoints ----

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Code         string `json:"code,omitempty"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

type AirportSummary struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	City string `json:"city"`
}

type AirlineSummary struct {
	ID   string  `json:"id"`
	Code string  `json:"code"`
	Name string  `json:"name"`
	Logo *string `json:"logo,omitempty"`
}

// PopulatedFlight is a flight with its reference data resolved for display
type PopulatedFlight struct {
	gorm.Flight
	Airline          *AirlineSummary `json:"airline,omitempty"`
	DepartureAirport *AirportSummary `json:"departureAirport,omitempty"`
	ArrivalAirport   *AirportSummary `json:"arrivalAirport,omitempty"`
}

type FlightPair struct {
	Departure *PopulatedFlight `json:"departure"`
	Arrival   *PopulatedFlight `json:"arrival"`
}

type DeleteFlightResult struct {
	FlightID    string  `json:"flightId"`
	TwinID      *string `json:"twinId,omitempty"`
	TwinDeleted bool    `json:"twinDeleted"`
}

type FlightListResponse struct {
	Flights []PopulatedFlight `json:"flights"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
}

type TransitionErrorData struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	UpSince  time.Time                `json:"up_since"`
	Uptime   string                   `json:"uptime"`
}
