package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"finclusion/internal/shared/middleware"
)

// envelope is the shape of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// userIDFrom returns the principal the auth middleware resolved.
func userIDFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}
	return userID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// parseDay parses a YYYY-MM-DD date (or a full RFC 3339 instant) as UTC.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// dayRange turns inclusive startDate/endDate query values into [from, to).
func dayRange(start, end string) (time.Time, time.Time, error) {
	from, err := parseDay(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDay(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from = from.Truncate(24 * time.Hour)
	to = to.Truncate(24 * time.Hour).AddDate(0, 0, 1)
	return from, to, nil
}
