package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/service/worker"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
)

// GridUseCase is the part of the grid use case the API serves
type GridUseCase interface {
	Projects(ctx context.Context) ([]*model.Project, error)
	Scores(ctx context.Context, projectID types.ProjectID) (*model.GridScore, error)
	Detail(ctx context.Context, projectID types.ProjectID, attributeID types.AttributeID, componentID types.ComponentID, provider string) ([]*model.RiskDetail, error)
	Refresh(ctx context.Context, projectID types.ProjectID) error
}

// StatusReporter exposes the background refresh status
type StatusReporter interface {
	Status() worker.RefreshStatus
}

type Server struct {
	router *chi.Mux
	grid   GridUseCase
	status StatusReporter
}

type Options func(*Server)

func WithRefreshStatus(reporter StatusReporter) Options {
	return func(s *Server) {
		s.status = reporter
	}
}

func New(grid GridUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		grid:   grid,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SetHeader("Cache-Control", "no-store"))

		if s.status != nil {
			r.Get("/status", statusHandler(s.status))
		}

		r.Get("/projects", projectsHandler(s.grid))
		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/grid", gridHandler(s.grid))
			r.Get("/cells/{attributeID}/{componentID}/details", detailHandler(s.grid))
			r.Post("/refresh", refreshHandler(s.grid))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}
