package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"seawing-logistics/internal/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal"
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
		message = "not found"
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
		code = "conflict"
		message = "conflict"
	case errors.Is(err, domain.ErrInvalidState):
		status = http.StatusConflict
		code = "invalid_state"
		message = "entity is in the wrong state for this operation"
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusUnprocessableEntity
		code = "validation"
		message = "validation failed"
	case errors.Is(err, domain.ErrInvalid):
		status = http.StatusUnprocessableEntity
		code = "invalid"
		message = "invalid request"
	case errors.Is(err, domain.ErrRouting):
		status = http.StatusUnprocessableEntity
		code = "routing"
		message = "no route between the requested ports"
	}
	respondJSON(w, status, errorResponse{Code: code, Message: message})
}
