package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/mapty/internal/session"
	"github.com/claude/mapty/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Compile-time check: *view.State satisfies session.View.
var _ session.View = (*view.State)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	ctrl   *session.Controller
	view   *view.State
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(ctrl *session.Controller, v *view.State, log *slog.Logger) *Server {
	s := &Server{
		ctrl:   ctrl,
		view:   v,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/position", s.handlePosition)
		r.Post("/position/error", s.handlePositionError)
		r.Post("/map/click", s.handleMapClick)
		r.Post("/form/type", s.handleFormType)
		r.Post("/reset", s.handleReset)

		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleCreateWorkout)
		r.Get("/workouts/summary", s.handleSummary)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Post("/workouts/{id}/select", s.handleSelectWorkout)
	})
}

// SetMCP mounts an MCP streamable HTTP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}

// SetFrontend mounts the embedded frontend filesystem.
// Unmatched routes serve index.html.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
