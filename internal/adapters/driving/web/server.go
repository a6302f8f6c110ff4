package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/linksign"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// MaxUploadBytes bounds a multipart upload request.
const MaxUploadBytes = 64 << 20

// Config holds server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// StageDir, when set, is served under /stage/ for the local backend's
	// scoped links. Links requires it.
	StageDir string

	// Links verifies the signature and expiry of scoped links.
	Links *linksign.Signer

	// Now is the clock used to check link expiry. Defaults to time.Now.
	Now func() time.Time
}

// Server is the web UI and JSON API.
type Server struct {
	ports *Ports
	cfg   Config
	page  *template.Template
}

// NewServer creates a server for the given ports.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultWebAddr
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.StageDir != "" && cfg.Links == nil {
		return nil, fmt.Errorf("%w: serving the stage needs a link signer", domain.ErrInvalidInput)
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Server{ports: ports, cfg: cfg, page: page}, nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/ingest", s.handleIngest)
	mux.HandleFunc("POST /api/classify", s.handleClassify)
	mux.HandleFunc("GET /api/documents", s.handleDocuments)
	mux.HandleFunc("GET /api/documents/{path...}", s.handleDocument)
	if s.cfg.StageDir != "" {
		mux.HandleFunc("GET /stage/{path...}", s.handleStageFile)
	}
	return withRequestLog(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	logger.Info("web: listening on %s", s.cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
