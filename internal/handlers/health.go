package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tropicaldog17/monitorcrypto/internal/services"
)

// HealthChecker is satisfied by *db.DB.
type HealthChecker interface {
	Health() error
}

type HealthHandler struct {
	source services.MarketDataSource
	store  HealthChecker
}

func NewHealthHandler(source services.MarketDataSource, store HealthChecker) *HealthHandler {
	return &HealthHandler{source: source, store: store}
}

// GET /health
// @Summary Service health
// @Description Reports upstream API reachability and database connectivity. Always 200.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	upstream := "online"
	if err := h.source.Ping(r.Context()); err != nil {
		upstream = "error: " + upstreamErrorCode(err)
	}
	database := "ok"
	if err := h.store.Health(); err != nil {
		database = "error"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"coingecko": upstream,
		"database":  database,
	})
}

func upstreamErrorCode(err error) string {
	var statusErr *services.SourceStatusError
	if errors.As(err, &statusErr) {
		return strconv.Itoa(statusErr.StatusCode)
	}
	return "unreachable"
}
