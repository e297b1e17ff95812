package constants

// Flight error kinds
// Every kind is distinguishable by callers so the UI can render a precise message

// Validation errors
const (
	ErrCodeUnknownAirport        = "UNKNOWN_AIRPORT"
	ErrCodeInactiveAirport       = "INACTIVE_AIRPORT"
	ErrCodeUnknownAirline        = "UNKNOWN_AIRLINE"
	ErrCodeInactiveAirline       = "INACTIVE_AIRLINE"
	ErrCodeSameAirport           = "SAME_AIRPORT"
	ErrCodeScheduleTooShort      = "SCHEDULE_TOO_SHORT"
	ErrCodeDuplicateFlightNumber = "DUPLICATE_FLIGHT_NUMBER"
	ErrCodeInvalidDelay          = "INVALID_DELAY"
	ErrCodeInvalidFlightNumber   = "INVALID_FLIGHT_NUMBER"
	ErrCodeInvalidStatus         = "INVALID_STATUS"
	ErrCodeMissingReason         = "MISSING_CANCELLATION_REASON"
)

// State errors
const (
	ErrCodeInvalidTransition      = "INVALID_TRANSITION"
	ErrCodeCannotDeleteInProgress = "CANNOT_DELETE_IN_PROGRESS"
)

// Lookup and consistency errors
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeTwinSyncFailed = "TWIN_SYNC_FAILED"
)

// FlightErrorMessages holds the default human-readable message per kind
var FlightErrorMessages = map[string]string{
	ErrCodeUnknownAirport:        "The referenced airport does not exist",
	ErrCodeInactiveAirport:       "The referenced airport is not active",
	ErrCodeUnknownAirline:        "The referenced airline does not exist",
	ErrCodeInactiveAirline:       "The referenced airline is not active",
	ErrCodeSameAirport:           "Departure and arrival airports must be different",
	ErrCodeScheduleTooShort:      "Arrival must be at least 15 minutes after departure",
	ErrCodeDuplicateFlightNumber: "This flight number already exists for that date",
	ErrCodeInvalidDelay:          "Delay must be a positive number of minutes",
	ErrCodeInvalidFlightNumber:   "Invalid flight number format (e.g. MD301)",
	ErrCodeInvalidStatus:         "Unknown flight status",
	ErrCodeMissingReason:         "A cancellation reason is required",

	ErrCodeInvalidTransition:      "Status transition is not allowed",
	ErrCodeCannotDeleteInProgress: "A flight that is in progress or completed cannot be deleted",

	ErrCodeNotFound:       "Flight not found",
	ErrCodeTwinSyncFailed: "The flight was updated but its paired record could not be synchronized",
}

// GetFlightErrorMessage returns the human-readable message for an error kind
func GetFlightErrorMessage(code string) string {
	if msg, exists := FlightErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
