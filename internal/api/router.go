package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tetrisparty/internal/api/handler"
	"github.com/mcoot/tetrisparty/internal/api/middleware"
	"github.com/mcoot/tetrisparty/internal/services/scores"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger    *slog.Logger
	Scores    *scores.Service
	Arcade    handler.StatusProvider
	Socket    http.HandlerFunc
	PublicURL string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Create handlers
	scoresHandler := handler.NewScoresHandler(cfg.Scores)
	healthHandler := handler.NewHealthHandler(cfg.Arcade)
	qrHandler := handler.NewQRHandler(cfg.PublicURL, cfg.Logger)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/scores", scoresHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/qr", qrHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Read-only paths answer any other method with 405
	for _, path := range []string{"/scores", "/qr", "/health"} {
		api.HandleFunc(path, handler.MethodNotAllowed(http.MethodGet))
	}

	// Event gateway
	if cfg.Socket != nil {
		socket := r.PathPrefix("/ws").Subrouter()
		socket.Use(loggingMiddleware)
		socket.HandleFunc("", cfg.Socket).Methods(http.MethodGet)
	}

	return r
}
