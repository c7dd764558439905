package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"moneta/internal/core"
)

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrConsistency), errors.Is(err, core.ErrInsufficientFunds):
		status = http.StatusConflict
	case errors.Is(err, core.ErrPersistence):
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "error", err)
	}
	writeJSON(ctx, w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return core.Validationf("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.Validationf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// parsePeriod reads month and year query parameters, defaulting to the
// current calendar month.
func parsePeriod(r *http.Request) (month, year int, err error) {
	now := time.Now()
	month, year = int(now.Month()), now.Year()

	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return 0, 0, core.Validationf("invalid month %q", v)
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil || year < 1 {
			return 0, 0, core.Validationf("invalid year %q", v)
		}
	}
	return month, year, nil
}

// parseRange reads from/to query parameters, defaulting to the current
// calendar month.
func parseRange(r *http.Request) (from, to core.Date, err error) {
	now := time.Now()
	from, to = core.MonthPeriod(now.Year(), int(now.Month()))

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		if from, err = core.ParseDate(v); err != nil {
			return core.Date{}, core.Date{}, err
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		if to, err = core.ParseDate(v); err != nil {
			return core.Date{}, core.Date{}, err
		}
	}
	if to.Before(from.Time) {
		return core.Date{}, core.Date{}, core.Validationf("range end %s before start %s", to, from)
	}
	return from, to, nil
}

// marshalForCache renders a response body once so it can be served from the
// taxonomy cache. Returns nil when the value cannot be marshalled.
func marshalForCache(v any) []byte {
	body, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return append(body, '\n')
}

// amountFrom resolves the two ways a payload can carry an amount: integer
// cents, or a decimal string ("12.34", comma accepted) which takes precedence.
func amountFrom(cents core.Money, decimal string) (core.Money, error) {
	if strings.TrimSpace(decimal) != "" {
		return core.ParseAmount(decimal)
	}
	return cents, nil
}
