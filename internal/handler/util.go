package handler

import (
	"encoding/json"
	"net/http"

	"github.com/propstack/tenant-chatbot/internal/service"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch service.CodeOf(err) {
	case service.ErrorValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case service.ErrorNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case service.ErrorTimeout:
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	}
}
