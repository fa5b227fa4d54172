package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ore/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps domain rejections onto the API's status codes.
// Anything unrecognized is a 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *core.ValidationError
	var budgetErr *core.BudgetError

	switch {
	case errors.Is(err, core.ErrTimesheetNotFound):
		writeError(w, http.StatusNotFound, "Timesheet not found")
	case errors.Is(err, core.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, "Entry not found")
	case errors.As(err, &validationErr), errors.As(err, &budgetErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Unhandled store error",
			"error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// recoverPanics converts handler panics into a 500 JSON error.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "Handler panic",
					"panic", rec, "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func rateLimitedResponse(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
