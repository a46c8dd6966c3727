// File path: internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/camline/agreementd/internal/catalog"
	"github.com/camline/agreementd/internal/common"
	"github.com/camline/agreementd/internal/pipeline"
	"github.com/camline/agreementd/internal/sqlite"
)

// ErrRunInProgress is returned when an assembly run is already executing.
var ErrRunInProgress = errors.New("assembly run already in progress")

// Runner triggers assembly runs and exposes the template catalog.
type Runner interface {
	Run(ctx context.Context) (pipeline.Result, error)
	Templates(ctx context.Context) ([]catalog.Definition, error)
}

// RunCatalog answers run and agreement queries.
type RunCatalog interface {
	RecentRuns(ctx context.Context, limit int) ([]sqlite.RunRecord, error)
	Agreements(ctx context.Context, runID string) ([]sqlite.AgreementRecord, error)
}

// Server exposes the assembly pipeline over HTTP.
type Server struct {
	router  chi.Router
	runner  Runner
	catalog RunCatalog

	runMu   sync.Mutex
	running bool
}

// NewServer builds the HTTP server over the given collaborators. The catalog
// may be nil; the query endpoints then answer 404.
func NewServer(runner Runner, runCatalog RunCatalog) (*Server, error) {
	if runner == nil {
		return nil, errors.New("api: runner required")
	}
	srv := &Server{
		router:  chi.NewRouter(),
		runner:  runner,
		catalog: runCatalog,
	}
	srv.routes()
	common.Logger().Info("api: server ready")
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/v1/assemble", s.handleAssemble)
	s.router.Get("/v1/runs", s.handleRuns)
	s.router.Get("/v1/agreements", s.handleAgreements)
	s.router.Get("/v1/templates", s.handleTemplates)
	s.router.Get("/v1/logs", s.handleLogs)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
