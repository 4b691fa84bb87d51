package api

import (
	"log"
	"net/http"
	"time"

	"gocpd/app"
	"gocpd/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the resolver and planner over HTTP
type Server struct {
	router     *chi.Mux
	planner    *app.PlannerService
	repository ports.RunRepository
	port       string
}

// Config holds HTTP server configuration
type Config struct {
	Port           string
	RequestTimeout time.Duration
}

// NewServer creates the HTTP server. The repository may be nil, which
// disables the run listing endpoints.
func NewServer(config Config, planner *app.PlannerService, repository ports.RunRepository) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		planner:    planner,
		repository: repository,
		port:       config.Port,
	}

	s.setupMiddleware(config.RequestTimeout)
	s.setupRoutes()

	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware(requestTimeout time.Duration) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		s.router.Use(middleware.Timeout(requestTimeout))
	}
}

// setupRoutes configures all endpoints
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Post("/plan", s.handlePlan)
		r.Get("/families", s.handleFamilies)
		if s.repository != nil {
			r.Get("/runs", s.handleListRuns)
			r.Get("/runs/{id}", s.handleGetRun)
		}
	})
}

// Router returns the underlying router, mainly for tests
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start begins serving HTTP requests
func (s *Server) Start() error {
	addr := ":" + s.port
	log.Printf("[API] listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}
