package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/tropicaldog17/monitorcrypto/internal/services"
)

const notSyncedMessage = "no synced market data, run a manual sync first"

type PriceHandler struct {
	market    services.MarketService
	freshness services.FreshnessChecker
	defaultVs string
}

func NewPriceHandler(market services.MarketService, freshness services.FreshnessChecker, defaultVs string) *PriceHandler {
	if defaultVs == "" {
		defaultVs = "usd"
	}
	return &PriceHandler{market: market, freshness: freshness, defaultVs: defaultVs}
}

type notSyncedResponse struct {
	Detail         string     `json:"detail"`
	LastSnapshotAt *time.Time `json:"last_snapshot_at"`
}

// writeNotSynced answers 503 with the age of the newest stored snapshot, if any.
func (h *PriceHandler) writeNotSynced(w http.ResponseWriter, r *http.Request, vs string) {
	body := notSyncedResponse{Detail: notSyncedMessage}
	if last, err := h.freshness.LastSnapshotAt(r.Context(), vs); err == nil {
		body.LastSnapshotAt = last
	}
	writeJSON(w, http.StatusServiceUnavailable, body)
}

// GET /api/prices?vs=usd&per_page=50&page=1
// @Summary List latest prices
// @Description Latest stored snapshot of every coin, largest market cap first, with 24h/7d KPIs
// @Tags prices
// @Produce json
// @Param vs query string false "Quote currency (default usd)"
// @Param per_page query int false "Results per page (1-250, default 50)"
// @Param page query int false "Page number (default 1)"
// @Success 200 {array} models.PriceItem
// @Failure 400 {string} string "Bad request"
// @Failure 502 {string} string "Read failed"
// @Failure 503 {object} notSyncedResponse "No fresh data"
// @Router /prices [get]
func (h *PriceHandler) HandlePrices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	vs := strings.ToLower(vsParam(r, h.defaultVs))
	perPage, err := intParam(r, "per_page", 50, 1, 250)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := intParam(r, "page", 1, 1, 1<<30)
	if err != nil {
		writeError(w, err)
		return
	}

	fresh, err := h.freshness.IsFresh(r.Context(), vs, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	if !fresh {
		h.writeNotSynced(w, r, vs)
		return
	}

	items, err := h.market.GetLatestPrices(r.Context(), vs, perPage, page)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GET /api/coin/{coin_id}?vs=usd&days=7
// @Summary Get coin detail
// @Description Stored coin metadata, latest metrics and price series. days <= 0 returns the whole history.
// @Tags prices
// @Produce json
// @Param coin_id path string true "CoinGecko coin id"
// @Param vs query string false "Quote currency (default usd)"
// @Param days query string false "Series window in days (default 7)"
// @Success 200 {object} models.CoinDetail
// @Failure 400 {string} string "Bad request"
// @Failure 404 {string} string "Not found"
// @Failure 502 {string} string "Read failed"
// @Failure 503 {object} notSyncedResponse "No fresh data"
// @Router /coin/{coin_id} [get]
func (h *PriceHandler) HandleCoin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	coinID := mux.Vars(r)["coin_id"]
	vs := strings.ToLower(vsParam(r, h.defaultVs))

	fresh, err := h.freshness.IsFresh(r.Context(), vs, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	if !fresh {
		h.writeNotSynced(w, r, vs)
		return
	}

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "days must be numeric", http.StatusBadRequest)
			return
		}
	}

	detail, err := h.market.GetCoinDetail(r.Context(), coinID, vs, days)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
