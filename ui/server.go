// Package ui serves the browser workflow: upload form, analysis results,
// and the download endpoints for the CSV, text, chart and slide exports.
package ui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"datalens/internal"
	"datalens/internal/config"
	"datalens/internal/errors"
	"datalens/internal/store"
)

//go:embed templates/*
var embeddedFiles embed.FS

// Server represents the analyzer web server
type Server struct {
	router    *gin.Engine
	store     *store.Store
	config    *config.Config
	logger    *internal.Logger
	templates *template.Template

	// Bounds how many uploads may be analyzed at once. Each analysis is an
	// independent unit of work with no shared mutable state.
	analysisSem *semaphore.Weighted
}

// NewServer creates a new web server instance
func NewServer(cfg *config.Config, analyses *store.Store) (*Server, error) {
	gin.SetMode(cfg.Server.GinMode)

	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	s := &Server{
		router:      gin.Default(),
		store:       analyses,
		config:      cfg,
		logger:      internal.DefaultLogger,
		templates:   templates,
		analysisSem: semaphore.NewWeighted(cfg.Upload.MaxConcurrent),
	}
	s.router.SetHTMLTemplate(templates)
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/upload", s.handleFileUpload)

	analyses := s.router.Group("/analyses/:id")
	analyses.GET("", s.handleResult)
	analyses.GET("/summary.txt", s.handleSummaryDownload)
	analyses.GET("/data.csv", s.handleCSVDownload)
	analyses.GET("/charts.xlsx", s.handleChartsDownload)
	analyses.GET("/deck.pptx", s.handleDeckDownload)
}

// Run starts the HTTP server on the configured port
func (s *Server) Run() error {
	addr := ":" + s.config.Server.Port
	s.logger.Info("[Server] Listening on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}
