package services

import (
	"airport-ops/tarmac/internal/constants"
)

// statusTransitions lists the statuses reachable from each status through
// ChangeStatus. AddDelay forces delayed outside of this table.
var statusTransitions = map[constants.FlightStatus][]constants.FlightStatus{
	constants.FlightStatusScheduled: {constants.FlightStatusBoarding, constants.FlightStatusDelayed, constants.FlightStatusCancelled},
	constants.FlightStatusBoarding:  {constants.FlightStatusDeparted, constants.FlightStatusDelayed, constants.FlightStatusCancelled},
	constants.FlightStatusDelayed:   {constants.FlightStatusBoarding, constants.FlightStatusDeparted, constants.FlightStatusCancelled},
	constants.FlightStatusDeparted:  {constants.FlightStatusInAir, constants.FlightStatusCancelled},
	constants.FlightStatusInAir:     {constants.FlightStatusLanded},
	constants.FlightStatusLanded:    {},
	constants.FlightStatusCancelled: {},
}

// AllowedTransitions returns the statuses reachable from from
func AllowedTransitions(from constants.FlightStatus) []constants.FlightStatus {
	next := statusTransitions[from]
	out := make([]constants.FlightStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is an edge of the lifecycle
func CanTransition(from, to constants.FlightStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func IsTerminal(s constants.FlightStatus) bool {
	return len(statusTransitions[s]) == 0
}

// ValidateStatusTransition returns INVALID_TRANSITION naming both states
func ValidateStatusTransition(from, to constants.FlightStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return &FlightError{
		Kind:    constants.ErrCodeInvalidTransition,
		Message: "cannot transition from " + from.String() + " to " + to.String(),
		From:    from,
		To:      to,
	}
}
