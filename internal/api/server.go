// ABOUTME: HTTP server struct, constructor, and handler wiring for SmartStock.
// ABOUTME: Holds the store, config, and alert email dispatcher used by handlers.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Rudrakshi123/smartstock/internal/config"
	"github.com/Rudrakshi123/smartstock/internal/notify"
	"github.com/Rudrakshi123/smartstock/internal/store"
)

// Server holds the dependencies for the HTTP layer.
type Server struct {
	store       *store.Store
	cfg         *config.Config
	dispatcher  *notify.Dispatcher
	rateLimiter *ipRateLimiter
}

// NewServer creates a Server sending alert emails through mailer.
func NewServer(s *store.Store, cfg *config.Config, mailer notify.Mailer) *Server {
	evictTTL := cfg.RateLimitEvictTTL
	if evictTTL == 0 {
		evictTTL = 15 * time.Minute
	}
	// 10 sends per minute per IP, burst of 10.
	rl := newIPRateLimiter(rate.Limit(10.0/60), 10, evictTTL)
	return &Server{
		store:       s,
		cfg:         cfg,
		dispatcher:  notify.NewDispatcher(mailer, cfg.EmailFrom),
		rateLimiter: rl,
	}
}

// Close releases background resources (the rate limiter's cleanup goroutine).
// Safe to call more than once.
func (srv *Server) Close() {
	srv.rateLimiter.Close()
}

// Handler builds and returns the http.Handler.
func (srv *Server) Handler() http.Handler {
	var db *pgxpool.Pool
	if srv.store != nil {
		db = srv.store.Pool()
	}
	r := chi.NewRouter()

	// Security headers first so they appear on every response including errors.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	// 1 MB global body limit — protect against OOM from large request bodies.
	r.Use(middleware.RequestSize(1 << 20))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthzHandler(db))
	r.Handle("/metrics", promhttp.Handler())

	// ── API v1 sub-router with huma (OpenAPI 3.1) ────────────────────────────
	apiRouter := chi.NewRouter()
	humaConfig := huma.DefaultConfig("SmartStock API", "0.1.0")
	humaConfig.Info.Description = "Retail inventory and low-stock alerting API"
	api := humachi.New(apiRouter, humaConfig)
	registerProductRoutes(api, srv.store)
	registerStoreRoutes(api, srv.store)
	registerStockRoutes(api, srv.store)
	registerTransactionRoutes(api, srv.store)
	registerDashboardRoutes(api, srv.store)
	registerLowStockRoutes(api, srv)
	registerPredictionRoutes(api)

	// ── Alert email route (chi, not huma) ────────────────────────────────────
	// Browser clients call this directly and depend on its exact CORS headers
	// and error body shape, so it bypasses huma's problem-details errors.
	apiRouter.Route("/alerts/email", func(r chi.Router) {
		r.Use(alertEmailCORS)
		r.Options("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.With(srv.sendRateLimit()).Post("/", srv.sendAlertEmailHandler)
	})

	r.Mount("/api/v1", apiRouter)

	return r
}

// healthResponse is the JSON body for /healthz.
type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db,omitempty"`
}

// healthzHandler returns 200 {"status":"ok"} when the DB is reachable,
// or 503 {"status":"degraded","db":"unavailable"} when it is not.
func healthzHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		statusCode := http.StatusOK

		if db == nil {
			resp.Status = "degraded"
			resp.DB = "unavailable"
			statusCode = http.StatusServiceUnavailable
		} else if err := db.Ping(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "healthz: db ping failed", "error", err)
			resp.Status = "degraded"
			resp.DB = "unavailable"
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.ErrorContext(r.Context(), "healthz: failed to encode response", "error", err)
		}
	}
}
