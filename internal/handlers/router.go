package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/tropicaldog17/monitorcrypto/internal/metrics"
)

// Routes groups the handlers mounted by NewRouter.
type Routes struct {
	Health   *HealthHandler
	Admin    *AdminHandler
	Prices   *PriceHandler
	Analysis *AnalysisHandler
	Metrics  *metrics.Metrics
}

func NewRouter(rt Routes) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware, metricsMiddleware(rt.Metrics))

	router.HandleFunc("/health", rt.Health.HandleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/prices", rt.Prices.HandlePrices).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/coin/{coin_id}", rt.Prices.HandleCoin).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/analysis/{symbol}", rt.Analysis.HandleAnalysis).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/admin/sync", rt.Admin.HandleSync).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/admin/sync-series", rt.Admin.HandleSyncSeries).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/admin/postgres/tables", rt.Admin.HandleTables).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/admin/postgres/tables/{table}", rt.Admin.HandleTable).Methods(http.MethodGet, http.MethodOptions)

	if rt.Metrics != nil {
		router.Handle("/metrics", rt.Metrics.Handler()).Methods(http.MethodGet)
	}
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware labels requests by route template so path parameters
// do not blow up label cardinality.
func metricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			m.ObserveHTTP(route, rec.status, time.Since(started))
		})
	}
}
