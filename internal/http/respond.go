package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shopmart/shop-backend/internal/apperr"
)

// Envelope is the response shape every endpoint answers with: status flips
// to false on failures and the message stays human-readable.
type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, Envelope{Status: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Envelope{Status: false, Message: message})
}

// respondServiceError maps error kinds to HTTP status codes:
// NotFound -> 404, BadRequest -> 400, Unauthorized -> 401, Forbidden -> 403,
// everything else -> 500. Internal errors are logged with the request id so
// the 500 a client reports can be matched to its cause.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch apperr.KindOf(err) {
	case apperr.KindBadRequest:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	default:
		status = http.StatusInternalServerError
		log.Printf("internal error (request %s): %v", getRequestID(r.Context()), err)
	}

	respondError(w, status, apperr.MessageOf(err))
}
