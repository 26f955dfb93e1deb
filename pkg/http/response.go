package http

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the portal's error envelope. Every non-2xx response
// carries success=false and a user-safe error string.
type ErrorResponse struct {
	Success          bool   `json:"success"`
	Error            string `json:"error"`
	Blocked          bool   `json:"blocked,omitempty"`
	MinutesRemaining int    `json:"minutesRemaining,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Encoding errors are not recoverable at this point; headers are gone
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error response with the given status code
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Success: false, Error: message})
}

// WriteBlocked writes the 429 response for a rate-limited client,
// including how long the block has left to run
func WriteBlocked(w http.ResponseWriter, message string, minutesRemaining int) {
	WriteJSON(w, http.StatusTooManyRequests, ErrorResponse{
		Success:          false,
		Error:            message,
		Blocked:          true,
		MinutesRemaining: minutesRemaining,
	})
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
