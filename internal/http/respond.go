package http

import (
	"encoding/json"
	"net/http"

	"thuchi/internal/faults"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps the fault taxonomy onto HTTP status codes. Store faults
// surface as bad gateway because the hosted backend, not this process,
// failed.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch faults.KindOf(err) {
	case faults.KindValidation:
		status = http.StatusBadRequest
	case faults.KindAuth:
		status = http.StatusUnauthorized
	case faults.KindStore:
		status = http.StatusBadGateway
	case faults.KindDataShape:
		status = http.StatusUnprocessableEntity
	}
	writeErrorStatus(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
