package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sanoh-inlab/labelgo/internal/backend"
	"github.com/sanoh-inlab/labelgo/internal/buildinfo"
	"github.com/sanoh-inlab/labelgo/internal/config"
	"github.com/sanoh-inlab/labelgo/internal/database"
	"github.com/sanoh-inlab/labelgo/internal/middleware"
	"github.com/sanoh-inlab/labelgo/internal/services/labels"
	"github.com/sanoh-inlab/labelgo/internal/utils"
	"github.com/sanoh-inlab/labelgo/internal/websocket"
)

// Router wraps the mux router and the services behind it
type Router struct {
	*mux.Router
	cfg     *config.Config
	db      *database.DB
	backend *backend.Client
	labels  *labels.Service
	hub     *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes. db may be nil, in
// which case only backend accounts can log in.
func NewRouter(cfg *config.Config, db *database.DB, client *backend.Client, svc *labels.Service, hub *websocket.Hub) *Router {
	r := &Router{
		Router:  mux.NewRouter(),
		cfg:     cfg,
		db:      db,
		backend: client,
		labels:  svc,
		hub:     hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protected.HandleFunc("/prod-headers", r.listProdHeaders).Methods("GET")
	protected.HandleFunc("/labels/printable", r.listPrintableLabels).Methods("GET")
	protected.HandleFunc("/labels/print", r.printLabels).Methods("POST")
	protected.HandleFunc("/labels/mark-printed", r.markPrinted).Methods("POST")
	protected.HandleFunc("/labels/sync", r.triggerSync).Methods("POST")
	protected.HandleFunc("/print-jobs", r.listPrintJobs).Methods("GET")

	// Dashboard event stream
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	ws.HandleFunc("", r.serveWs)

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "local",
	})
}

// getStatus returns build and runtime information
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	clients := 0
	if r.hub != nil {
		clients = r.hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "running",
		"build":       buildinfo.Current(),
		"backend":     r.backend.BaseURL,
		"database":    r.db != nil,
		"dashboards":  clients,
		"addresses":   utils.LocalAddresses(),
		"environment": r.cfg.NodeEnv,
	})
}

func (r *Router) serveWs(w http.ResponseWriter, req *http.Request) {
	if r.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "Event stream disabled")
		return
	}
	websocket.ServeWs(r.hub, w, req)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps service and backend errors to HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, labels.ErrNoLabelsSelected), errors.Is(err, labels.ErrProdNoRequired):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, backend.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, backend.ErrTimeout.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// withTimeout bounds a request context by d when d is positive
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
