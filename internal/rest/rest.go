package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/overtrack/overtrack/internal/errs"
	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSON encodes body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func WriteBadRequest(w http.ResponseWriter, message string, details string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Details: details})
}

// WriteError maps a domain error to its HTTP status.
func WriteError(w http.ResponseWriter, err error) {
	if !errs.IsClientError(err) {
		log.Errorf("request failed: %v", err)
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Details: err.Error()})
		return
	}
	status := StatusFor(err)
	log.Debugf("request rejected (%d): %v", status, err)
	WriteJSON(w, status, ErrorResponse{Error: err.Error()})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidOperation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// DecodeBody reads a JSON body into dst and validates it with v.
// It writes the 400 response itself and returns false when the body is unusable.
func DecodeBody(w http.ResponseWriter, r *http.Request, v *Validator, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			WriteBadRequest(w, "Invalid request body format", "Request body is empty")
			return false
		}
		WriteBadRequest(w, "Invalid request body format", FormatValidationError(err))
		return false
	}
	if err := v.Struct(dst); err != nil {
		WriteBadRequest(w, "Invalid request", FormatValidationError(err))
		return false
	}
	return true
}
