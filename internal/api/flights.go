package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"airport-ops/tarmac/internal/auth"
	"airport-ops/tarmac/internal/common"
	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/models/dtos"
	gormModels "airport-ops/tarmac/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

// FlightService is the pairing engine as seen by the HTTP layer
type FlightService interface {
	CreatePair(ctx context.Context, req dtos.CreateFlightReq, actorID, creatorAirportID string) (*dtos.FlightPair, error)
	GetFlight(ctx context.Context, id string) (*dtos.PopulatedFlight, error)
	GetTwin(ctx context.Context, id string) (*dtos.PopulatedFlight, error)
	ListFlights(ctx context.Context, filter dtos.FlightFilter) (*dtos.FlightListResponse, error)
	UpdatePair(ctx context.Context, id string, patch gormModels.FlightPatch) (*dtos.PopulatedFlight, error)
	ChangeStatus(ctx context.Context, id string, status constants.FlightStatus, extra gormModels.FlightPatch) (*dtos.PopulatedFlight, error)
	CancelFlight(ctx context.Context, id string, reason string) (*dtos.PopulatedFlight, error)
	AddDelay(ctx context.Context, id string, minutes int) (*dtos.PopulatedFlight, error)
	DeletePair(ctx context.Context, id string) (*dtos.DeleteFlightResult, error)
}

// FlightHandlers serves /api/v1/flights
type FlightHandlers struct {
	svc FlightService
}

func NewFlightHandlers(svc FlightService) *FlightHandlers {
	return &FlightHandlers{svc: svc}
}

// ListFlights handles GET /api/v1/flights
//
// Query: airport, type, status, date (YYYY-MM-DD or RFC3339), search, page, limit.
// Regional admins only ever see flights touching their own airport.
func (h *FlightHandlers) ListFlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		q := r.URL.Query()

		filter := dtos.FlightFilter{
			AirportID:  q.Get("airport"),
			FlightType: q.Get("type"),
			Status:     q.Get("status"),
			Search:     q.Get("search"),
		}

		if filter.FlightType != "" && !constants.FlightType(filter.FlightType).IsValid() {
			respondBadRequest(w, initTime, "type must be departure or arrival")
			return
		}
		if filter.Status != "" && !constants.FlightStatus(filter.Status).IsValid() {
			respondBadRequest(w, initTime, "unknown status filter")
			return
		}
		if raw := q.Get("date"); raw != "" {
			day, err := parseDay(raw)
			if err != nil {
				respondBadRequest(w, initTime, "date must be YYYY-MM-DD or RFC3339")
				return
			}
			filter.Date = &day
		}
		for name, dst := range map[string]*int{"page": &filter.Page, "limit": &filter.Limit} {
			if raw := q.Get(name); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil || n < 1 || (name == "page" && n > dtos.MaxFlightsPage) {
					respondBadRequest(w, initTime, "Invalid "+name+" parameter")
					return
				}
				*dst = n
			}
		}

		claims := auth.GetUserClaims(r.Context())
		if !claims.HasPermission(auth.PermissionListAll) {
			filter.AirportID = claims.AirportID()
		}

		res, err := h.svc.ListFlights(r.Context(), filter)
		if err != nil {
			respondFlightError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flights fetched", res)
	}
}

// GetFlight handles GET /api/v1/flights/{id}
func (h *FlightHandlers) GetFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		flight, ok := h.authorizedFlight(w, r, initTime)
		if !ok {
			return
		}
		common.RespondSuccess(w, initTime, "Flight fetched", flight)
	}
}

// GetTwin handles GET /api/v1/flights/{id}/twin
func (h *FlightHandlers) GetTwin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		flight, ok := h.authorizedFlight(w, r, initTime)
		if !ok {
			return
		}

		twin, err := h.svc.GetTwin(r.Context(), flight.ID)
		if err != nil {
			respondFlightError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Twin flight fetched", twin)
	}
}

// CreateFlight handles POST /api/v1/flights
func (h *FlightHandlers) CreateFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateFlightReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondBadRequest(w, initTime, "Invalid request body: "+err.Error())
			return
		}
		req.Normalize()
		if err := req.Validate(); err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		claims := auth.GetUserClaims(r.Context())
		if !claims.HasPermission(auth.PermissionListAll) && req.DepartureAirportID != claims.AirportID() {
			respondForbidden(w, initTime, "Regional admins may only create departures from their own airport")
			return
		}

		pair, err := h.svc.CreatePair(r.Context(), req, claims.UserID(), claims.AirportID())
		if err != nil {
			respondFlightError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight pair created", pair, http.StatusCreated)
	}
}

// UpdateFlight handles PATCH /api/v1/flights/{id}
func (h *FlightHandlers) UpdateFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.UpdateFlightReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondBadRequest(w, initTime, "Invalid request body: "+err.Error())
			return
		}
		if err := req.Validate(); err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		flight, ok := h.authorizedFlight(w, r, initTime)
		if !ok {
			return
		}

		updated, err := h.svc.UpdatePair(r.Context(), flight.ID, req.ToPatch())
		if err != nil {
			respondFlightError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight updated", updated)
	}
}

// ChangeStatus handles PATCH /api/v1/flights/{id}/status. Cancellation goes
// through /cancel so that a reason is always recorded.
func (h *FlightHandlers) ChangeStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ChangeStatusReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondBadRequest(w, initTime, "Invalid request body: "+err.Error())
			return
		}
		if err := req.Validate(); err != nil {
			common.RespondErrorCode(w, initTime, http.StatusBadRequest, constants.ErrCodeInvalidStatus, err.Error(), nil)
			return
		}
		status := constants.FlightStatus(req.Status)
		if status == constants.FlightStatusCancelled {
			respondBadRequest(w, initTime, "Use POST /api/v1/flights/{id}/cancel with a reason to cancel a flight")
			return
		}

		flight, ok := h.authorizedFlight(w, r, initTime)
		if !ok {
			return
		}

		updated, err := h.svc.ChangeStatus(r.Context(), flight.ID, status, req.Extra())
		if err != nil {
			respondFlightError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight status changed", updated)
	}
}

// CancelFlight handles POST /api/v1/flights/{id}/cancel
func (h *FlightHandlers) CancelFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CancelFlightReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondBadRequest(w, initTime, "Invalid request body: "+err.Error())
			return
		}
		if err := req.Validate(); err != nil {
			common.RespondErrorCode(w, initTime, http.StatusBadRequest, constants.ErrCodeMissingReason, err.Error(), nil)
			return
		}

		flight, ok := h.authorizedFlight(w, r, initTime)
		if !ok {
			return
		}

		updated, err := h.svc.CancelFlight(r.Context(), flight.ID, strings.TrimSpace(req.Reason))
		if err != nil {
			respondFlightError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight cancelled", updated)
	}
}

// DelayFlight handles POST /api/v1/flights/{id}/delay
func (h *FlightHandlers) DelayFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.DelayFlightReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondBadRequest(w, initTime, "Invalid request body: "+err.Error())
			return
		}
		if err := req.Validate(); err != nil {
			common.RespondErrorCode(w, initTime, http.StatusBadRequest, constants.ErrCodeInvalidDelay, err.Error(), nil)
			return
		}

		flight, ok := h.authorizedFlight(w, r, initTime)
		if !ok {
			return
		}

		updated, err := h.svc.AddDelay(r.Context(), flight.ID, req.Minutes)
		if err != nil {
			respondFlightError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight delayed", updated)
	}
}

// DeleteFlight handles DELETE /api/v1/flights/{id}
func (h *FlightHandlers) DeleteFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		res, err := h.svc.DeletePair(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondFlightError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight pair deleted", res)
	}
}

// authorizedFlight loads the flight named in the path and checks that the
// caller may act on it. It writes the error response itself.
func (h *FlightHandlers) authorizedFlight(w http.ResponseWriter, r *http.Request, initTime time.Time) (*dtos.PopulatedFlight, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondBadRequest(w, initTime, "Missing flight id")
		return nil, false
	}

	flight, err := h.svc.GetFlight(r.Context(), id)
	if err != nil {
		respondFlightError(w, r, initTime, err)
		return nil, false
	}

	claims := auth.GetUserClaims(r.Context())
	if !auth.CanAccessAirport(claims, flight.DepartureAirportID, flight.ArrivalAirportID) {
		respondForbidden(w, initTime, "Flight is outside your airport")
		return nil, false
	}
	return flight, true
}

// parseDay accepts a plain date (taken as UTC) or an RFC3339 timestamp whose
// own zone defines the day
func parseDay(raw string) (time.Time, error) {
	if day, err := time.Parse("2006-01-02", raw); err == nil {
		return day, nil
	}
	return time.Parse(time.RFC3339, raw)
}
