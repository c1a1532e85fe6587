package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paramedit/paramedit/pkg/types"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error codes for failures that happen before the session layer is reached.
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeEditError maps a session-layer error to an HTTP response.
func writeEditError(w http.ResponseWriter, err error) {
	var ee *types.EditError
	if !errors.As(err, &ee) {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	detail := ErrorDetail{
		Code:    string(ee.Code),
		Message: ee.Message,
	}
	if ee.Name != "" {
		detail.Details = map[string]any{"name": ee.Name}
	}
	writeJSON(w, statusForCode(ee.Code), ErrorResponse{Error: detail})
}

// statusForCode maps edit error codes to HTTP status codes.
func statusForCode(code types.EditErrorCode) int {
	switch code {
	case types.ErrCodeNotFound:
		return http.StatusNotFound
	case types.ErrCodeInvalidExpression:
		return http.StatusUnprocessableEntity
	case types.ErrCodeDuplicateName, types.ErrCodeReferencedByOthers,
		types.ErrCodeSessionActive, types.ErrCodeSessionClosed:
		return http.StatusConflict
	case types.ErrCodeUnsupportedOperation:
		return http.StatusBadRequest
	case types.ErrCodeHostError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
