package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tropicaldog17/monitorcrypto/internal/services"
)

type AnalysisHandler struct {
	service   services.AnalysisService
	defaultVs string
}

func NewAnalysisHandler(service services.AnalysisService, defaultVs string) *AnalysisHandler {
	if defaultVs == "" {
		defaultVs = "usd"
	}
	return &AnalysisHandler{service: service, defaultVs: defaultVs}
}

// GET /api/analysis/{symbol}?vs=usd&days=7
// @Summary Analyse a symbol
// @Description Price statistics and trend over the stored snapshots of a symbol
// @Tags analysis
// @Produce json
// @Param symbol path string true "Coin symbol (e.g., BTC)"
// @Param vs query string false "Quote currency (default usd)"
// @Param days query int false "Window in days (1-90, default 7)"
// @Success 200 {object} models.AnalysisResult
// @Failure 400 {string} string "Bad request"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal server error"
// @Failure 503 {string} string "No fresh data"
// @Router /analysis/{symbol} [get]
func (h *AnalysisHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	days, err := intParam(r, "days", 7, 1, 90)
	if err != nil {
		writeError(w, err)
		return
	}
	vs := strings.ToLower(vsParam(r, h.defaultVs))

	result, err := h.service.AnalyseSymbol(r.Context(), mux.Vars(r)["symbol"], vs, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
