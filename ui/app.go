package ui

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"datalens/internal"
	"datalens/internal/analyzer"
	"datalens/internal/config"
	"datalens/internal/errors"
)

// App is the headless JSON API: analyses go straight from request body to
// report with nothing retained between requests.
type App struct {
	router *chi.Mux
	config *config.Config
	logger *internal.Logger
}

// NewApp creates the API application
func NewApp(cfg *config.Config) *App {
	app := &App{
		router: chi.NewRouter(),
		config: cfg,
		logger: internal.DefaultLogger,
	}
	app.setupMiddleware()
	app.setupRoutes()
	return app
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

func (a *App) setupRoutes() {
	a.router.Get("/api/health", a.handleHealth)
	a.router.Post("/api/analyze", a.handleAnalyze)
}

// Run starts the API server on the configured port
func (a *App) Run() error {
	addr := ":" + a.config.Server.Port
	a.logger.Info("[App] API listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Handler exposes the router for tests
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze parses the raw CSV request body and returns the full
// report as JSON. The request is self-contained; nothing is stored.
func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, a.config.Upload.MaxFileSize+1))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if int64(len(body)) > a.config.Upload.MaxFileSize {
		a.writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds upload limit")
		return
	}

	ds, err := analyzer.Parse(string(body))
	if err != nil {
		if errors.IsParseError(err) {
			a.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("[handleAnalyze] FAILED - %v", err)
		a.writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	a.writeJSON(w, http.StatusOK, analyzer.Summarize(ds))
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("[writeJSON] FAILED - %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, map[string]string{"error": message})
}
