package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/tropicaldog17/monitorcrypto/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps the service error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrMarketDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrSourceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

// intParam reads an optional integer query parameter bounded to [lo, hi].
func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &apperrors.ErrValidation{Field: name, Message: "must be an integer"}
	}
	if v < lo || v > hi {
		return 0, &apperrors.ErrValidation{Field: name, Message: "must be between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi)}
	}
	return v, nil
}

func vsParam(r *http.Request, def string) string {
	if vs := r.URL.Query().Get("vs"); vs != "" {
		return vs
	}
	return def
}
