package gorm

import (
	"time"

	"airport-ops/tarmac/internal/constants"
)

// FlightField names a patchable flight attribute. The values double as the
// JSON and BSON keys of the corresponding Flight fields.
type FlightField string

const (
	FieldScheduledDeparture FlightField = "scheduledDeparture"
	FieldScheduledArrival   FlightField = "scheduledArrival"
	FieldActualDeparture    FlightField = "actualDeparture"
	FieldActualArrival      FlightField = "actualArrival"
	FieldStatus             FlightField = "status"
	FieldDelayMinutes       FlightField = "delayMinutes"
	FieldCancellationReason FlightField = "cancellationReason"
	FieldRemarks            FlightField = "remarks"
	FieldAircraftType       FlightField = "aircraftType"
	FieldIsArchived         FlightField = "isArchived"
)

var fieldColumns = map[FlightField]string{
	FieldScheduledDeparture: "scheduled_departure",
	FieldScheduledArrival:   "scheduled_arrival",
	FieldActualDeparture:    "actual_departure",
	FieldActualArrival:      "actual_arrival",
	FieldStatus:             "status",
	FieldDelayMinutes:       "delay_minutes",
	FieldCancellationReason: "cancellation_reason",
	FieldRemarks:            "remarks",
	FieldAircraftType:       "aircraft_type",
	FieldIsArchived:         "is_archived",
}

// Column returns the SQL column backing the field
func (f FlightField) Column() string {
	return fieldColumns[f]
}

// FieldSet is a set of flight fields
type FieldSet map[FlightField]struct{}

// NewFieldSet builds a set from the given fields
func NewFieldSet(fields ...FlightField) FieldSet {
	set := make(FieldSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Has reports whether f is in the set
func (s FieldSet) Has(f FlightField) bool {
	_, ok := s[f]
	return ok
}

// With returns a copy of the set extended with extra fields
func (s FieldSet) With(extra ...FlightField) FieldSet {
	out := make(FieldSet, len(s)+len(extra))
	for f := range s {
		out[f] = struct{}{}
	}
	for _, f := range extra {
		out[f] = struct{}{}
	}
	return out
}

// FlightPatch is a partial update of a flight. Nil fields are left untouched.
type FlightPatch struct {
	ScheduledDeparture *time.Time
	ScheduledArrival   *time.Time
	ActualDeparture    *time.Time
	ActualArrival      *time.Time
	Status             *constants.FlightStatus
	DelayMinutes       *int
	CancellationReason *string
	Remarks            *string
	AircraftType       *string
	IsArchived         *bool
}

// Values returns the set fields keyed by field name
func (p FlightPatch) Values() map[FlightField]interface{} {
	values := make(map[FlightField]interface{})
	if p.ScheduledDeparture != nil {
		values[FieldScheduledDeparture] = *p.ScheduledDeparture
	}
	if p.ScheduledArrival != nil {
		values[FieldScheduledArrival] = *p.ScheduledArrival
	}
	if p.ActualDeparture != nil {
		values[FieldActualDeparture] = *p.ActualDeparture
	}
	if p.ActualArrival != nil {
		values[FieldActualArrival] = *p.ActualArrival
	}
	if p.Status != nil {
		values[FieldStatus] = *p.Status
	}
	if p.DelayMinutes != nil {
		values[FieldDelayMinutes] = *p.DelayMinutes
	}
	if p.CancellationReason != nil {
		values[FieldCancellationReason] = *p.CancellationReason
	}
	if p.Remarks != nil {
		values[FieldRemarks] = *p.Remarks
	}
	if p.AircraftType != nil {
		values[FieldAircraftType] = *p.AircraftType
	}
	if p.IsArchived != nil {
		values[FieldIsArchived] = *p.IsArchived
	}
	return values
}

// IsEmpty reports whether the patch touches nothing
func (p FlightPatch) IsEmpty() bool {
	return len(p.Values()) == 0
}

// Columns returns the set fields keyed by SQL column, for partial updates
func (p FlightPatch) Columns() map[string]interface{} {
	values := p.Values()
	cols := make(map[string]interface{}, len(values))
	for field, v := range values {
		cols[field.Column()] = v
	}
	return cols
}

// Only returns the subset of the patch whose fields are in set
func (p FlightPatch) Only(set FieldSet) FlightPatch {
	var out FlightPatch
	if set.Has(FieldScheduledDeparture) {
		out.ScheduledDeparture = p.ScheduledDeparture
	}
	if set.Has(FieldScheduledArrival) {
		out.ScheduledArrival = p.ScheduledArrival
	}
	if set.Has(FieldActualDeparture) {
		out.ActualDeparture = p.ActualDeparture
	}
	if set.Has(FieldActualArrival) {
		out.ActualArrival = p.ActualArrival
	}
	if set.Has(FieldStatus) {
		out.Status = p.Status
	}
	if set.Has(FieldDelayMinutes) {
		out.DelayMinutes = p.DelayMinutes
	}
	if set.Has(FieldCancellationReason) {
		out.CancellationReason = p.CancellationReason
	}
	if set.Has(FieldRemarks) {
		out.Remarks = p.Remarks
	}
	if set.Has(FieldAircraftType) {
		out.AircraftType = p.AircraftType
	}
	if set.Has(FieldIsArchived) {
		out.IsArchived = p.IsArchived
	}
	return out
}

// Merge overlays other onto p; fields set in other win
func (p FlightPatch) Merge(other FlightPatch) FlightPatch {
	if other.ScheduledDeparture != nil {
		p.ScheduledDeparture = other.ScheduledDeparture
	}
	if other.ScheduledArrival != nil {
		p.ScheduledArrival = other.ScheduledArrival
	}
	if other.ActualDeparture != nil {
		p.ActualDeparture = other.ActualDeparture
	}
	if other.ActualArrival != nil {
		p.ActualArrival = other.ActualArrival
	}
	if other.Status != nil {
		p.Status = other.Status
	}
	if other.DelayMinutes != nil {
		p.DelayMinutes = other.DelayMinutes
	}
	if other.CancellationReason != nil {
		p.CancellationReason = other.CancellationReason
	}
	if other.Remarks != nil {
		p.Remarks = other.Remarks
	}
	if other.AircraftType != nil {
		p.AircraftType = other.AircraftType
	}
	if other.IsArchived != nil {
		p.IsArchived = other.IsArchived
	}
	return p
}

// ApplyTo writes the set fields onto f
func (p FlightPatch) ApplyTo(f *Flight) {
	if p.ScheduledDeparture != nil {
		f.ScheduledDeparture = *p.ScheduledDeparture
	}
	if p.ScheduledArrival != nil {
		f.ScheduledArrival = *p.ScheduledArrival
	}
	if p.ActualDeparture != nil {
		t := *p.ActualDeparture
		f.ActualDeparture = &t
	}
	if p.ActualArrival != nil {
		t := *p.ActualArrival
		f.ActualArrival = &t
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.DelayMinutes != nil {
		f.DelayMinutes = *p.DelayMinutes
	}
	if p.CancellationReason != nil {
		s := *p.CancellationReason
		f.CancellationReason = &s
	}
	if p.Remarks != nil {
		s := *p.Remarks
		f.Remarks = &s
	}
	if p.AircraftType != nil {
		s := *p.AircraftType
		f.AircraftType = &s
	}
	if p.IsArchived != nil {
		f.IsArchived = *p.IsArchived
	}
}
