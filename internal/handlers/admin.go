package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/monitorcrypto/internal/errors"
	"github.com/tropicaldog17/monitorcrypto/internal/models"
	"github.com/tropicaldog17/monitorcrypto/internal/repositories"
	"github.com/tropicaldog17/monitorcrypto/internal/services"
)

const defaultSeriesWindow = 90

type AdminHandler struct {
	syncer   services.Synchronizer
	tables   repositories.TableRepository
	defaults services.SyncDefaults
	logger   *zap.Logger
	now      func() time.Time
}

func NewAdminHandler(syncer services.Synchronizer, tables repositories.TableRepository, defaults services.SyncDefaults, logger *zap.Logger) *AdminHandler {
	if defaults.VsCurrency == "" {
		defaults.VsCurrency = "usd"
	}
	if defaults.PerPage <= 0 {
		defaults.PerPage = 50
	}
	if defaults.Pages <= 0 {
		defaults.Pages = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{syncer: syncer, tables: tables, defaults: defaults, logger: logger, now: time.Now}
}

// SyncRequest is the optional body of the manual sync triggers.
type SyncRequest struct {
	VsCurrency *string  `json:"vs_currency"`
	PerPage    *int     `json:"per_page"`
	Pages      *int     `json:"pages"`
	Days       *int     `json:"days"`
	CoinID     *string  `json:"coin_id"`
	CoinIDs    []string `json:"coin_ids"`
}

func (req *SyncRequest) validate() error {
	if err := checkRange("per_page", req.PerPage, 1, 250); err != nil {
		return err
	}
	if err := checkRange("pages", req.Pages, 1, 10); err != nil {
		return err
	}
	return checkRange("days", req.Days, 1, 365)
}

func checkRange(field string, v *int, lo, hi int) error {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		return &apperrors.ErrValidation{Field: field, Message: "must be between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi)}
	}
	return nil
}

func decodeSyncRequest(r *http.Request) (*SyncRequest, error) {
	req := &SyncRequest{}
	if r.Body == nil {
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		return nil, &apperrors.ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func (h *AdminHandler) vsCurrency(req *SyncRequest) string {
	if req.VsCurrency != nil && strings.TrimSpace(*req.VsCurrency) != "" {
		return strings.ToLower(strings.TrimSpace(*req.VsCurrency))
	}
	return h.defaults.VsCurrency
}

// POST /api/admin/sync
// @Summary Trigger a market snapshot sync
// @Description Fetches the upstream listing and stores one snapshot per coin
// @Tags admin
// @Accept json
// @Produce json
// @Param request body SyncRequest false "Sync options"
// @Success 202 {object} models.SyncResponse
// @Failure 400 {string} string "Bad request"
// @Failure 502 {string} string "Sync failed"
// @Router /admin/sync [post]
func (h *AdminHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := decodeSyncRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	vs := h.vsCurrency(req)
	perPage, pages := h.defaults.PerPage, h.defaults.Pages
	if req.PerPage != nil {
		perPage = *req.PerPage
	}
	if req.Pages != nil {
		pages = *req.Pages
	}

	processed, err := h.syncer.SyncMarketSnapshot(r.Context(), vs, perPage, pages)
	if err != nil {
		h.logger.Error("manual sync failed", zap.String("vs_currency", vs), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusAccepted, &models.SyncResponse{
		Processed:  processed,
		VsCurrency: vs,
		PerPage:    perPage,
		Pages:      pages,
		SyncedAt:   h.now().UTC(),
	})
}

// POST /api/admin/sync-series
// @Summary Trigger a historical series sync
// @Description Replaces the stored price series of the selected coins (all coins by default)
// @Tags admin
// @Accept json
// @Produce json
// @Param request body SyncRequest false "Sync options; days falls back to per_page, then pages, then 90"
// @Success 202 {object} models.SyncResponse
// @Failure 400 {string} string "Bad request"
// @Failure 502 {string} string "Sync failed"
// @Router /admin/sync-series [post]
func (h *AdminHandler) HandleSyncSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := decodeSyncRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	vs := h.vsCurrency(req)
	days := defaultSeriesWindow
	switch {
	case req.Days != nil:
		days = *req.Days
	case req.PerPage != nil:
		days = *req.PerPage
	case req.Pages != nil:
		days = *req.Pages
	}
	var filter []string
	if len(req.CoinIDs) > 0 {
		filter = req.CoinIDs
	} else if req.CoinID != nil && *req.CoinID != "" {
		filter = []string{*req.CoinID}
	}

	res, err := h.syncer.SyncHistoricalSeries(r.Context(), vs, days, filter)
	if err != nil {
		h.logger.Error("manual series sync failed", zap.String("vs_currency", vs), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	coins := res.Coins
	writeJSON(w, http.StatusAccepted, &models.SyncResponse{
		Processed:  res.Inserted,
		VsCurrency: vs,
		PerPage:    days,
		Pages:      1,
		SyncedAt:   h.now().UTC(),
		Coins:      &coins,
		CoinIDs:    res.CoinIDs,
	})
}

type tableInfo struct {
	Name     string                     `json:"name"`
	Columns  []repositories.TableColumn `json:"columns"`
	RowCount *int64                     `json:"row_count"`
}

// GET /api/admin/postgres/tables?include_counts=true
// @Summary List database tables
// @Tags admin
// @Produce json
// @Param include_counts query bool false "Include row counts"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {string} string "Internal server error"
// @Router /admin/postgres/tables [get]
func (h *AdminHandler) HandleTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	includeCounts, _ := strconv.ParseBool(r.URL.Query().Get("include_counts"))

	names, err := h.tables.ListTables(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	tables := make([]tableInfo, 0, len(names))
	for _, name := range names {
		cols, err := h.tables.Columns(r.Context(), name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		info := tableInfo{Name: name, Columns: cols}
		if includeCounts {
			// a failing count leaves row_count null
			if n, err := h.tables.CountRows(r.Context(), name); err == nil {
				info.RowCount = &n
			}
		}
		tables = append(tables, info)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tables": tables})
}

// GET /api/admin/postgres/tables/{table}?limit=20
// @Summary Sample rows of a table
// @Tags admin
// @Produce json
// @Param table path string true "Table name"
// @Param limit query int false "Maximum rows (1-100, default 20)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {string} string "Bad request"
// @Failure 404 {string} string "Table not found"
// @Failure 500 {string} string "Internal server error"
// @Router /admin/postgres/tables/{table} [get]
func (h *AdminHandler) HandleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit, err := intParam(r, "limit", 20, 1, 100)
	if err != nil {
		writeError(w, err)
		return
	}
	table := mux.Vars(r)["table"]

	names, err := h.tables.ListTables(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !slices.Contains(names, table) {
		http.Error(w, "Table not found", http.StatusNotFound)
		return
	}

	cols, err := h.tables.Columns(r.Context(), table)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rows, err := h.tables.SampleRows(r.Context(), table, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	columns := make([]string, 0, len(cols))
	for _, c := range cols {
		columns = append(columns, c.Name)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"table":   table,
		"columns": columns,
		"rows":    rows,
	})
}
