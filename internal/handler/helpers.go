package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleServiceError maps domain error types to HTTP status codes.
// Unknown errors are logged and returned as an opaque 500.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		invalidRange *domain.ErrInvalidRange
		validation   *domain.ErrValidation
		noData       *domain.ErrNoData
		notFound     *domain.ErrNotFound
		circuitOpen  *domain.ErrCircuitOpen
	)

	switch {
	case errors.As(err, &invalidRange), errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &noData), errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &circuitOpen):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("unhandled service error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// csvParam splits a comma-separated query parameter, dropping empties.
func csvParam(r *http.Request, name string) []string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// dayParam parses an optional YYYY-MM-DD query parameter.
func dayParam(r *http.Request, name string) (*domain.Day, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDay(raw)
	if err != nil {
		return nil, &domain.ErrValidation{Field: name, Message: "expected YYYY-MM-DD"}
	}
	return &d, nil
}
