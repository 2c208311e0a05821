package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/trailmark/internal/session"
	"github.com/meltforce/trailmark/internal/ui"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes one session's events and workouts over HTTP.
type Server struct {
	ctrl   *session.Controller
	loop   *session.Loop
	svc    *session.Service
	rec    *ui.Recorder
	pos    *ui.ReportedPosition
	log    *slog.Logger
	ts     whoIser
	router chi.Router
}

// New creates a new Server with all routes configured. The controller must
// have been built with rec and pos as its collaborators, and loop must be
// running.
func New(ctrl *session.Controller, loop *session.Loop, rec *ui.Recorder, pos *ui.ReportedPosition, log *slog.Logger) *Server {
	s := &Server{
		ctrl:   ctrl,
		loop:   loop,
		svc:    session.NewService(ctrl, loop),
		rec:    rec,
		pos:    pos,
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
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	// Session events, serialized through the loop
	s.router.Get("/api/v1/session", s.handleSession)
	s.router.Post("/api/v1/session/start", s.handleStart)
	s.router.Post("/api/v1/session/reset", s.handleReset)
	s.router.Post("/api/v1/map/pick", s.handlePick)
	s.router.Post("/api/v1/form/type", s.handleTypeChanged)
	s.router.Post("/api/v1/form/submit", s.handleSubmit)
	s.router.Post("/api/v1/workouts/{id}/focus", s.handleFocus)

	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Post("/api/v1/workouts", s.handleCreateWorkout)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/me", s.handleMe)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

// SetMCP mounts an MCP transport at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

// SetTailscale resolves request identities through the tailnet.
func (s *Server) SetTailscale(lc whoIser) {
	s.ts = lc
}
