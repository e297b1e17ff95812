package api

import (
	"errors"
	"net/http"
	"time"

	"airport-ops/tarmac/internal/auth"
	"airport-ops/tarmac/internal/common"
	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/logging"
	"airport-ops/tarmac/internal/models/dtos"
	"airport-ops/tarmac/internal/services"

	"go.uber.org/zap"
)

// ErrCodeBadRequest marks malformed input rejected before reaching the engine
const ErrCodeBadRequest = "BAD_REQUEST"

var kindStatus = map[string]int{
	constants.ErrCodeUnknownAirport:         http.StatusBadRequest,
	constants.ErrCodeInactiveAirport:        http.StatusBadRequest,
	constants.ErrCodeUnknownAirline:         http.StatusBadRequest,
	constants.ErrCodeInactiveAirline:        http.StatusBadRequest,
	constants.ErrCodeSameAirport:            http.StatusBadRequest,
	constants.ErrCodeScheduleTooShort:       http.StatusBadRequest,
	constants.ErrCodeInvalidDelay:           http.StatusBadRequest,
	constants.ErrCodeInvalidFlightNumber:    http.StatusBadRequest,
	constants.ErrCodeInvalidStatus:          http.StatusBadRequest,
	constants.ErrCodeMissingReason:          http.StatusBadRequest,
	constants.ErrCodeDuplicateFlightNumber:  http.StatusConflict,
	constants.ErrCodeInvalidTransition:      http.StatusConflict,
	constants.ErrCodeCannotDeleteInProgress: http.StatusConflict,
	constants.ErrCodeNotFound:               http.StatusNotFound,
	constants.ErrCodeTwinSyncFailed:         http.StatusInternalServerError,
}

// HTTPStatusFor returns the response status for an engine error
func HTTPStatusFor(err error) int {
	if code, ok := kindStatus[services.ErrorKind(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// respondFlightError writes an engine error with its kind and details
func respondFlightError(w http.ResponseWriter, r *http.Request, initTime time.Time, err error) {
	var fe *services.FlightError
	if !errors.As(err, &fe) {
		requestLogger(r).Errorw("Flight request failed", "error", err.Error())
		common.RespondErrorCode(w, initTime, http.StatusInternalServerError, "INTERNAL", "Internal server error", nil)
		return
	}

	var data any
	switch fe.Kind {
	case constants.ErrCodeInvalidTransition:
		data = dtos.TransitionErrorData{From: fe.From.String(), To: fe.To.String()}
	case constants.ErrCodeTwinSyncFailed:
		if fe.Flight != nil {
			data = fe.Flight
		}
	}

	msg := fe.Message
	if msg == "" {
		msg = constants.GetFlightErrorMessage(fe.Kind)
	}
	common.RespondErrorCode(w, initTime, HTTPStatusFor(err), fe.Kind, msg, data)
}

func respondBadRequest(w http.ResponseWriter, initTime time.Time, msg string) {
	common.RespondErrorCode(w, initTime, http.StatusBadRequest, ErrCodeBadRequest, msg, nil)
}

func respondForbidden(w http.ResponseWriter, initTime time.Time, msg string) {
	common.RespondErrorCode(w, initTime, http.StatusForbidden, "FORBIDDEN", msg, nil)
}

func requestLogger(r *http.Request) *zap.SugaredLogger {
	var userID, airportID string
	if claims := auth.GetUserClaims(r.Context()); claims != nil {
		userID, airportID = claims.UserID(), claims.AirportID()
	}
	return logging.WithRequest(auth.GetRequestID(r.Context()), userID, airportID, r.URL.Path)
}
