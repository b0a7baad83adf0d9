// Package server exposes the orchestration core over HTTP: case intake,
// job submission, status polling, results, and export.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caseflow-ai/caseflow/internal/analysis"
	"github.com/caseflow-ai/caseflow/internal/cases"
	"github.com/caseflow-ai/caseflow/internal/common"
	"github.com/caseflow-ai/caseflow/internal/docstore"
	"github.com/caseflow-ai/caseflow/internal/export"
	"github.com/caseflow-ai/caseflow/internal/registry"
)

type Server struct {
	router   chi.Router
	logger   *zap.Logger
	cases    *cases.Service
	jobs     registry.Store
	analysis *analysis.Service
	export   *export.Service
	docs     docstore.Writer
}

func New(
	logger *zap.Logger,
	caseSvc *cases.Service,
	jobStore registry.Store,
	analysisSvc *analysis.Service,
	exportSvc *export.Service,
	docs docstore.Writer,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		logger:   logger,
		cases:    caseSvc,
		jobs:     jobStore,
		analysis: analysisSvc,
		export:   exportSvc,
		docs:     docs,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/documents", s.handlePutDocument)

		r.Route("/cases", func(r chi.Router) {
			r.Post("/", s.handleCreateCase)
			r.Get("/{id}", s.handleGetCase)
			r.Post("/{id}/documents", s.handleAttachDocument)
			r.Get("/{id}/suggestions", s.handleSuggestions)
			r.Post("/{id}/specialists", s.handleSelectSpecialists)
			r.Post("/{id}/analyze", s.handleAnalyze)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/{id}", s.handleJobStatus)
			r.Get("/{id}/result", s.handleJobResult)
			r.Get("/{id}/export", s.handleJobExport)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// urlUUID parses the {id} path parameter, writing a 400 on failure.
func (s *Server) urlUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "BAD_ID",
			common.NewAppError("BAD_ID", "invalid id "+raw, common.ErrInvalidInput))
		return uuid.Nil, false
	}
	return id, true
}
