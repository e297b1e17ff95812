package services

import (
	"context"
	"fmt"

	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/logging"
	"airport-ops/tarmac/internal/models/dtos"
	gormModels "airport-ops/tarmac/internal/models/gorm"
)

// SynchronizedFields are mirrored onto the twin by every status-path write
var SynchronizedFields = gormModels.NewFieldSet(
	gormModels.FieldScheduledDeparture,
	gormModels.FieldScheduledArrival,
	gormModels.FieldActualDeparture,
	gormModels.FieldActualArrival,
	gormModels.FieldStatus,
	gormModels.FieldDelayMinutes,
	gormModels.FieldCancellationReason,
	gormModels.FieldRemarks,
)

// EditSynchronizedFields is the mirror set of UpdatePair
var EditSynchronizedFields = SynchronizedFields.With(gormModels.FieldAircraftType)

// ApplySynchronized writes patch to the flight and mirrors its synchronized
// subset onto the twin
func (s *FlightPairService) ApplySynchronized(ctx context.Context, id string, patch gormModels.FlightPatch) (res *dtos.PopulatedFlight, err error) {
	defer func() { s.observe("apply_synchronized", err) }()

	flight, err := s.loadFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.propagate(ctx, "apply_synchronized", flight, patch, SynchronizedFields)
	if err != nil {
		return nil, err
	}
	return s.directory.Populate(ctx, updated), nil
}

// propagate saves the patched target in full, then writes the synchronized
// subset to the twin as one flat column update. The twin write never recurses
// and is never rolled back: if it fails the target keeps its new state and
// TWIN_SYNC_FAILED carries it.
func (s *FlightPairService) propagate(ctx context.Context, op string, flight *gormModels.Flight, patch gormModels.FlightPatch, synced gormModels.FieldSet) (*gormModels.Flight, error) {
	patch.ApplyTo(flight)
	if err := s.store.Save(ctx, flight); err != nil {
		return nil, fromStoreError("save flight", err)
	}

	if flight.TwinID == nil {
		return flight, nil
	}
	mirror := patch.Only(synced)
	if mirror.IsEmpty() {
		return flight, nil
	}

	found, err := s.store.Patch(ctx, *flight.TwinID, mirror)
	if err == nil && found {
		return flight, nil
	}

	syncErr := &FlightError{
		Kind:    constants.ErrCodeTwinSyncFailed,
		Message: fmt.Sprintf("flight %s was updated but twin %s was not", flight.ID, *flight.TwinID),
		Flight:  flight,
		Err:     err,
	}
	if err == nil {
		syncErr.Message = fmt.Sprintf("flight %s was updated but twin %s does not exist", flight.ID, *flight.TwinID)
	}

	logging.Error("Twin synchronization failed",
		"operation", op,
		"flight_id", flight.ID,
		"twin_id", *flight.TwinID,
		"error", syncErr.Error(),
	)
	if s.metricsReg != nil {
		s.metricsReg.TwinSyncFailuresTotal.WithLabelValues(op).Inc()
	}
	s.emit(ctx, constants.FlightEventTwinSyncFail, flight, map[string]interface{}{
		"operation": op,
		"error":     syncErr.Error(),
	})
	return nil, syncErr
}
