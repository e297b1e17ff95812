package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/db/repositories"
	"airport-ops/tarmac/internal/events"
	"airport-ops/tarmac/internal/logging"
	"airport-ops/tarmac/internal/metrics"
	"airport-ops/tarmac/internal/models/dtos"
	gormModels "airport-ops/tarmac/internal/models/gorm"

	"github.com/google/uuid"
)

// FlightStore persists flight records. Finders return nil, nil when nothing matches.
type FlightStore interface {
	FindByID(ctx context.Context, id string) (*gormModels.Flight, error)
	FindByTwinID(ctx context.Context, twinID string) (*gormModels.Flight, error)
	FindByNumberInRange(ctx context.Context, number string, from, to time.Time) (*gormModels.Flight, error)
	// CreatePair stores both twins or neither
	CreatePair(ctx context.Context, departure, arrival *gormModels.Flight) error
	// Save validates and writes every field of an existing flight
	Save(ctx context.Context, flight *gormModels.Flight) error
	// Patch writes only the patched fields, unvalidated; false when id is absent
	Patch(ctx context.Context, id string, patch gormModels.FlightPatch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// FlightQuery serves flight listings
type FlightQuery interface {
	List(ctx context.Context, filter dtos.FlightFilter) ([]gormModels.Flight, int, error)
}

// statusExtraFields may accompany a status change
var statusExtraFields = gormModels.NewFieldSet(
	gormModels.FieldActualDeparture,
	gormModels.FieldActualArrival,
	gormModels.FieldRemarks,
	gormModels.FieldCancellationReason,
)

// editableFields are the only fields UpdatePair accepts
var editableFields = gormModels.NewFieldSet(
	gormModels.FieldScheduledDeparture,
	gormModels.FieldScheduledArrival,
	gormModels.FieldAircraftType,
	gormModels.FieldRemarks,
)

// FlightPairService owns the lifecycle of paired departure/arrival records
type FlightPairService struct {
	store      FlightStore
	queries    FlightQuery
	validator  *ReferenceValidator
	directory  *ReferenceDirectory
	publisher  events.Publisher
	metricsReg *metrics.MetricsRegistry
	now        func() time.Time
}

// NewFlightPairService wires the engine. publisher and metricsReg may be nil.
func NewFlightPairService(
	store FlightStore,
	queries FlightQuery,
	validator *ReferenceValidator,
	directory *ReferenceDirectory,
	publisher events.Publisher,
	metricsReg *metrics.MetricsRegistry,
) *FlightPairService {
	return &FlightPairService{
		store:      store,
		queries:    queries,
		validator:  validator,
		directory:  directory,
		publisher:  publisher,
		metricsReg: metricsReg,
		now:        time.Now,
	}
}

// CreatePair validates the request and stores the departure and arrival
// twins together
func (s *FlightPairService) CreatePair(ctx context.Context, req dtos.CreateFlightReq, actorID, creatorAirportID string) (res *dtos.FlightPair, err error) {
	defer func() { s.observe("create_pair", err) }()

	req.Normalize()
	if !gormModels.IsFlightNumber(req.FlightNumber) {
		return nil, newFlightError(constants.ErrCodeInvalidFlightNumber, "invalid flight number %q", req.FlightNumber)
	}

	if _, err := s.validator.CheckAirport(ctx, req.DepartureAirportID, "departure"); err != nil {
		return nil, err
	}
	if _, err := s.validator.CheckAirport(ctx, req.ArrivalAirportID, "arrival"); err != nil {
		return nil, err
	}
	if req.DepartureAirportID == req.ArrivalAirportID {
		return nil, newFlightError(constants.ErrCodeSameAirport, "departure and arrival airports must differ")
	}
	if _, err := s.validator.CheckAirline(ctx, req.AirlineID); err != nil {
		return nil, err
	}
	if req.ScheduledArrival.Sub(req.ScheduledDeparture) < gormModels.MinBlockTime {
		return nil, newFlightError(constants.ErrCodeScheduleTooShort, "arrival must be at least %s after departure", gormModels.MinBlockTime)
	}

	// One flight number per calendar day, taken in the timestamp's own zone
	y, m, d := req.ScheduledDeparture.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, req.ScheduledDeparture.Location())
	dup, err := s.store.FindByNumberInRange(ctx, req.FlightNumber, dayStart.UTC(), dayStart.AddDate(0, 0, 1).UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to check flight number: %w", err)
	}
	if dup != nil {
		return nil, newFlightError(constants.ErrCodeDuplicateFlightNumber, "flight %s already exists on %s", req.FlightNumber, dayStart.Format("2006-01-02"))
	}

	if creatorAirportID == "" {
		creatorAirportID = req.DepartureAirportID
	}

	departureID, arrivalID := uuid.NewString(), uuid.NewString()
	base := gormModels.Flight{
		FlightNumber:       req.FlightNumber,
		AirlineID:          req.AirlineID,
		AircraftType:       req.AircraftType,
		DepartureAirportID: req.DepartureAirportID,
		ArrivalAirportID:   req.ArrivalAirportID,
		ScheduledDeparture: req.ScheduledDeparture.UTC(),
		ScheduledArrival:   req.ScheduledArrival.UTC(),
		Status:             constants.FlightStatusScheduled,
		Remarks:            req.Remarks,
		CreatedBy:          actorID,
		CreatedAtAirport:   creatorAirportID,
	}

	departure := base
	departure.ID = departureID
	departure.FlightType = constants.FlightTypeDeparture
	departure.TwinID = &arrivalID

	arrival := base
	arrival.ID = arrivalID
	arrival.FlightType = constants.FlightTypeArrival
	arrival.TwinID = &departureID

	if err := s.store.CreatePair(ctx, &departure, &arrival); err != nil {
		return nil, fromStoreError("create flight pair", err)
	}

	logging.Info("Flight pair created",
		"flight_number", departure.FlightNumber,
		"departure_id", departure.ID,
		"arrival_id", arrival.ID,
		"actor_id", actorID,
	)
	s.emit(ctx, constants.FlightEventCreated, &departure, map[string]interface{}{
		"departure_airport_id": departure.DepartureAirportID,
		"arrival_airport_id":   departure.ArrivalAirportID,
		"scheduled_departure":  departure.ScheduledDeparture,
	})

	return &dtos.FlightPair{
		Departure: s.directory.Populate(ctx, &departure),
		Arrival:   s.directory.Populate(ctx, &arrival),
	}, nil
}

// GetFlight returns one flight with its reference data
func (s *FlightPairService) GetFlight(ctx context.Context, id string) (*dtos.PopulatedFlight, error) {
	flight, err := s.loadFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.directory.Populate(ctx, flight), nil
}

// GetTwin returns the other record of the pair
func (s *FlightPairService) GetTwin(ctx context.Context, id string) (*dtos.PopulatedFlight, error) {
	flight, err := s.loadFlight(ctx, id)
	if err != nil {
		return nil, err
	}

	var twin *gormModels.Flight
	if flight.TwinID != nil {
		twin, err = s.store.FindByID(ctx, *flight.TwinID)
	} else {
		twin, err = s.store.FindByTwinID(ctx, flight.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load twin: %w", err)
	}
	if twin == nil {
		return nil, newFlightError(constants.ErrCodeNotFound, "flight %s has no twin", id)
	}
	return s.directory.Populate(ctx, twin), nil
}

// ListFlights returns a page of flights
func (s *FlightPairService) ListFlights(ctx context.Context, filter dtos.FlightFilter) (*dtos.FlightListResponse, error) {
	filter.Normalize()
	flights, total, err := s.queries.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := &dtos.FlightListResponse{
		Flights: make([]dtos.PopulatedFlight, 0, len(flights)),
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}
	for i := range flights {
		out.Flights = append(out.Flights, *s.directory.Populate(ctx, &flights[i]))
	}
	return out, nil
}

// UpdatePair edits schedule, aircraft type or remarks and mirrors them to the twin
func (s *FlightPairService) UpdatePair(ctx context.Context, id string, patch gormModels.FlightPatch) (res *dtos.PopulatedFlight, err error) {
	defer func() { s.observe("update_pair", err) }()

	flight, err := s.loadFlight(ctx, id)
	if err != nil {
		return nil, err
	}

	patch = normalizePatchTimes(patch.Only(editableFields))
	if patch.IsEmpty() {
		return s.directory.Populate(ctx, flight), nil
	}

	updated, err := s.propagate(ctx, "update_pair", flight, patch, EditSynchronizedFields)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0)
	for field := range patch.Values() {
		fields = append(fields, string(field))
	}
	sort.Strings(fields)
	s.emit(ctx, constants.FlightEventUpdated, updated, map[string]interface{}{"fields": fields})
	return s.directory.Populate(ctx, updated), nil
}

// ChangeStatus moves the flight along its lifecycle, stamping actual times
// on departure and landing, and mirrors the change to the twin
func (s *FlightPairService) ChangeStatus(ctx context.Context, id string, newStatus constants.FlightStatus, extra gormModels.FlightPatch) (res *dtos.PopulatedFlight, err error) {
	defer func() { s.observe("change_status", err) }()

	if !newStatus.IsValid() {
		return nil, newFlightError(constants.ErrCodeInvalidStatus, "unknown status %q", newStatus)
	}

	flight, err := s.loadFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	from := flight.Status
	if err := ValidateStatusTransition(from, newStatus); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	stamped := gormModels.FlightPatch{Status: &newStatus}
	switch newStatus {
	case constants.FlightStatusDeparted:
		stamped.ActualDeparture = &now
	case constants.FlightStatusLanded:
		stamped.ActualArrival = &now
	}

	// Caller-supplied times win over the stamps
	patch := stamped.Merge(normalizePatchTimes(extra.Only(statusExtraFields)))
	if newStatus != constants.FlightStatusCancelled {
		patch.CancellationReason = nil
	}
	// Actual times are set once and never moved
	if flight.ActualDeparture != nil {
		patch.ActualDeparture = nil
	}
	if flight.ActualArrival != nil {
		patch.ActualArrival = nil
	}

	updated, err := s.propagate(ctx, "change_status", flight, patch, SynchronizedFields)
	if err != nil {
		return nil, err
	}

	action := constants.FlightEventStatusChanged
	details := map[string]interface{}{"from": from.String(), "to": newStatus.String()}
	if newStatus == constants.FlightStatusCancelled {
		action = constants.FlightEventCancelled
		if updated.CancellationReason != nil {
			details["reason"] = *updated.CancellationReason
		}
	}
	s.emit(ctx, action, updated, details)
	return s.directory.Populate(ctx, updated), nil
}

// CancelFlight cancels the flight and its twin with a reason
func (s *FlightPairService) CancelFlight(ctx context.Context, id string, reason string) (*dtos.PopulatedFlight, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		err := newFlightError(constants.ErrCodeMissingReason, "a cancellation reason is required")
		s.observe("cancel_flight", err)
		return nil, err
	}
	return s.ChangeStatus(ctx, id, constants.FlightStatusCancelled, gormModels.FlightPatch{CancellationReason: &reason})
}

// AddDelay pushes both scheduled times back by minutes, accumulates the delay
// and marks the pair delayed regardless of the transition table
func (s *FlightPairService) AddDelay(ctx context.Context, id string, minutes int) (res *dtos.PopulatedFlight, err error) {
	defer func() { s.observe("add_delay", err) }()

	if minutes <= 0 {
		return nil, newFlightError(constants.ErrCodeInvalidDelay, "delay must be positive, got %d minutes", minutes)
	}

	flight, err := s.loadFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	if flight.Status.HasLeft() || flight.Status == constants.FlightStatusCancelled {
		return nil, &FlightError{
			Kind:    constants.ErrCodeInvalidTransition,
			Message: "cannot delay a flight that is " + flight.Status.String(),
			From:    flight.Status,
			To:      constants.FlightStatusDelayed,
		}
	}

	shift := time.Duration(minutes) * time.Minute
	newDeparture := flight.ScheduledDeparture.Add(shift)
	newArrival := flight.ScheduledArrival.Add(shift)
	total := flight.DelayMinutes + minutes
	status := constants.FlightStatusDelayed

	patch := gormModels.FlightPatch{
		ScheduledDeparture: &newDeparture,
		ScheduledArrival:   &newArrival,
		DelayMinutes:       &total,
		Status:             &status,
	}

	updated, err := s.propagate(ctx, "add_delay", flight, patch, SynchronizedFields)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, constants.FlightEventDelayed, updated, map[string]interface{}{
		"minutes":       minutes,
		"delay_minutes": total,
	})
	return s.directory.Populate(ctx, updated), nil
}

// DeletePair removes a flight that has not left yet, together with its twin.
// A twin that is already gone is logged and reported, not treated as an error.
func (s *FlightPairService) DeletePair(ctx context.Context, id string) (res *dtos.DeleteFlightResult, err error) {
	defer func() { s.observe("delete_pair", err) }()

	flight, err := s.loadFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	if flight.Status.HasLeft() {
		return nil, newFlightError(constants.ErrCodeCannotDeleteInProgress, "flight %s is %s and cannot be deleted", flight.FlightNumber, flight.Status)
	}

	deleted, err := s.store.Delete(ctx, flight.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete flight: %w", err)
	}
	if !deleted {
		return nil, newFlightError(constants.ErrCodeNotFound, "flight %s not found", id)
	}

	result := &dtos.DeleteFlightResult{FlightID: flight.ID, TwinID: flight.TwinID}
	if flight.TwinID != nil {
		twinDeleted, err := s.store.Delete(ctx, *flight.TwinID)
		if err != nil {
			logging.Error("Failed to delete twin flight",
				"flight_id", flight.ID,
				"twin_id", *flight.TwinID,
				"error", err.Error(),
			)
			if s.metricsReg != nil {
				s.metricsReg.TwinSyncFailuresTotal.WithLabelValues("delete_pair").Inc()
			}
			return nil, &FlightError{
				Kind:    constants.ErrCodeTwinSyncFailed,
				Message: fmt.Sprintf("flight %s was deleted but twin %s was not", flight.ID, *flight.TwinID),
				Flight:  flight,
				Err:     err,
			}
		}
		if !twinDeleted {
			logging.Warn("Twin flight already missing on delete",
				"flight_id", flight.ID,
				"twin_id", *flight.TwinID,
			)
		}
		result.TwinDeleted = twinDeleted
	}

	s.emit(ctx, constants.FlightEventDeleted, flight, map[string]interface{}{
		"twin_deleted": result.TwinDeleted,
	})
	return result, nil
}

func (s *FlightPairService) loadFlight(ctx context.Context, id string) (*gormModels.Flight, error) {
	flight, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load flight %s: %w", id, err)
	}
	if flight == nil {
		return nil, newFlightError(constants.ErrCodeNotFound, "flight %s not found", id)
	}
	return flight, nil
}

func (s *FlightPairService) emit(ctx context.Context, action string, flight *gormModels.Flight, details map[string]interface{}) {
	if s.publisher == nil {
		return
	}

	evt := events.NewFlightEvent(ctx, action, flight, details)
	result := "ok"
	if err := s.publisher.Publish(ctx, evt); err != nil {
		result = "error"
		logging.Warn("Failed to publish flight event",
			"sink", s.publisher.Name(),
			"action", action,
			"flight_id", flight.ID,
			"error", err.Error(),
		)
	}
	if s.metricsReg != nil {
		s.metricsReg.FlightEventsTotal.WithLabelValues(s.publisher.Name(), result).Inc()
	}
}

func (s *FlightPairService) observe(op string, err error) {
	if s.metricsReg == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = ErrorKind(err)
		if result == "" {
			result = "error"
		}
	}
	s.metricsReg.FlightOperationsTotal.WithLabelValues(op, result).Inc()
}

func normalizePatchTimes(p gormModels.FlightPatch) gormModels.FlightPatch {
	utc := func(t *time.Time) *time.Time {
		if t == nil {
			return nil
		}
		u := t.UTC()
		return &u
	}
	p.ScheduledDeparture = utc(p.ScheduledDeparture)
	p.ScheduledArrival = utc(p.ScheduledArrival)
	p.ActualDeparture = utc(p.ActualDeparture)
	p.ActualArrival = utc(p.ActualArrival)
	return p
}

var _ FlightStore = (*repositories.FlightRepository)(nil)
var _ FlightStore = (*repositories.FlightMongoRepository)(nil)
var _ FlightQuery = (*repositories.FlightQueryRepository)(nil)
var _ FlightQuery = (*repositories.FlightMongoRepository)(nil)
