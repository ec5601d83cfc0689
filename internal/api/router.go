package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/psn-tools/psnemu/internal/api/apierr"
	"github.com/psn-tools/psnemu/internal/api/handler"
	apimiddleware "github.com/psn-tools/psnemu/internal/api/middleware"
	"github.com/psn-tools/psnemu/internal/metrics"
	"github.com/psn-tools/psnemu/internal/middleware"
	"github.com/psn-tools/psnemu/internal/services/account"
	"github.com/psn-tools/psnemu/internal/services/identity"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	IdentityService *identity.Service
	AccountService  *account.Service
	Metrics         *metrics.Collector
	MetricsRegistry *prometheus.Registry
}

// NewRouter creates the router with the full HTTP surface configured.
// Routing is an exact match on method and path template; anything else gets
// the route-not-found envelope.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(cfg.IdentityService, cfg.Metrics)
	playerHandler := handler.NewPlayerHandler(cfg.AccountService, cfg.Metrics)

	r.Use(apimiddleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Identity service routes
	r.HandleFunc("/auth/token", authHandler.Token).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)

	userinfo := r.PathPrefix("/auth/userinfo").Subrouter()
	userinfo.Use(apimiddleware.Auth(cfg.IdentityService))
	userinfo.HandleFunc("", authHandler.UserInfo).Methods(http.MethodGet)

	// Player account service routes
	r.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/players/{player_id}", playerHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/players/{player_id}", playerHandler.Update).Methods(http.MethodPut)
	r.HandleFunc("/players/{player_id}", playerHandler.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/players/{player_id}/stats", playerHandler.Stats).Methods(http.MethodGet)

	// Operational endpoints
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	if cfg.MetricsRegistry != nil {
		r.Handle("/metrics", metrics.SetupMetricsRoute(cfg.MetricsRegistry)).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(routeNotFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(routeNotFoundHandler)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func routeNotFoundHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewRouteNotFoundError(r.Method, r.URL.Path))
}
