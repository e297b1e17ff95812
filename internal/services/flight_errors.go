package services

import (
	"errors"
	"fmt"

	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/db/repositories"
	gormModels "airport-ops/tarmac/internal/models/gorm"
)

// FlightError is the typed error returned by the pairing engine. Kind is one
// of the ErrCode constants; errors.Is matches on Kind.
type FlightError struct {
	Kind    string
	Message string

	// From and To are set for INVALID_TRANSITION
	From constants.FlightStatus
	To   constants.FlightStatus

	// Flight is the committed target for TWIN_SYNC_FAILED
	Flight *gormModels.Flight

	Err error
}

func (e *FlightError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = constants.GetFlightErrorMessage(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *FlightError) Unwrap() error { return e.Err }

func (e *FlightError) Is(target error) bool {
	t, ok := target.(*FlightError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrUnknownAirport            = &FlightError{Kind: constants.ErrCodeUnknownAirport}
	ErrInactiveAirport           = &FlightError{Kind: constants.ErrCodeInactiveAirport}
	ErrUnknownAirline            = &FlightError{Kind: constants.ErrCodeUnknownAirline}
	ErrInactiveAirline           = &FlightError{Kind: constants.ErrCodeInactiveAirline}
	ErrSameAirport               = &FlightError{Kind: constants.ErrCodeSameAirport}
	ErrScheduleTooShort          = &FlightError{Kind: constants.ErrCodeScheduleTooShort}
	ErrDuplicateFlightNumber     = &FlightError{Kind: constants.ErrCodeDuplicateFlightNumber}
	ErrInvalidDelay              = &FlightError{Kind: constants.ErrCodeInvalidDelay}
	ErrInvalidFlightNumber       = &FlightError{Kind: constants.ErrCodeInvalidFlightNumber}
	ErrInvalidStatus             = &FlightError{Kind: constants.ErrCodeInvalidStatus}
	ErrMissingCancellationReason = &FlightError{Kind: constants.ErrCodeMissingReason}
	ErrInvalidTransition         = &FlightError{Kind: constants.ErrCodeInvalidTransition}
	ErrCannotDeleteInProgress    = &FlightError{Kind: constants.ErrCodeCannotDeleteInProgress}
	ErrNotFound                  = &FlightError{Kind: constants.ErrCodeNotFound}
	ErrTwinSyncFailed            = &FlightError{Kind: constants.ErrCodeTwinSyncFailed}
)

func newFlightError(kind string, format string, args ...interface{}) *FlightError {
	return &FlightError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrorKind returns the kind of a FlightError in err's chain, or ""
func ErrorKind(err error) string {
	var fe *FlightError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// fromStoreError turns a model invariant failure into its FlightError kind
// and wraps anything else as a store failure
func fromStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var inv *gormModels.InvariantError
	if errors.As(err, &inv) {
		return &FlightError{Kind: inv.Code, Message: inv.Message}
	}
	var fe *FlightError
	if errors.As(err, &fe) {
		return err
	}
	if errors.Is(err, repositories.ErrFlightMissing) {
		return newFlightError(constants.ErrCodeNotFound, "flight disappeared while saving")
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
