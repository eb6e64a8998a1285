// Package api serves the layout pipeline over HTTP.
//
// # Endpoints
//
//	GET    /healthz                       liveness and build info
//	GET    /v1/schema                     JSON schema of input documents
//	POST   /v1/layout                     lay out an input document
//	POST   /v1/rearrange                  move one node of a laid-out diagram
//	POST   /v1/sessions                   lay out and keep the result for editing
//	GET    /v1/sessions/{id}              fetch a session
//	POST   /v1/sessions/{id}/moves        move a node within a session
//	GET    /v1/sessions/{id}/preview      render a session as svg or dot
//	DELETE /v1/sessions/{id}              discard a session
//
// Errors are JSON objects with a machine-readable code (see [Error]).
// Requests carrying an X-Tenant header get their own cache namespace.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pidlayout/pkg/cache"
	"github.com/matzehuels/pidlayout/pkg/config"
	"github.com/matzehuels/pidlayout/pkg/observability"
	"github.com/matzehuels/pidlayout/pkg/pipeline"
	"github.com/matzehuels/pidlayout/pkg/session"
)

// TenantHeader selects a cache namespace.
const TenantHeader = "X-Tenant"

// DefaultMaxBodyBytes caps request bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 4 << 20

// Config wires a Server to its collaborators. Nil fields get defaults.
type Config struct {
	Cache        cache.Cache
	Sessions     session.Store
	SessionTTL   time.Duration
	Logger       *log.Logger
	MaxBodyBytes int64

	// Defaults fill every option a request leaves unset.
	Defaults config.Config
}

// Server handles layout requests.
type Server struct {
	cache      cache.Cache
	keyer      cache.Keyer
	sessions   session.Store
	sessionTTL time.Duration
	logger     *log.Logger
	maxBody    int64
	defaults   config.Config
}

// New creates a Server.
func New(cfg Config) *Server {
	s := &Server{
		cache:      cfg.Cache,
		keyer:      cache.NewDefaultKeyer(),
		sessions:   cfg.Sessions,
		sessionTTL: cfg.SessionTTL,
		logger:     cfg.Logger,
		maxBody:    cfg.MaxBodyBytes,
		defaults:   cfg.Defaults,
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore()
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = session.DefaultTTL
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/schema", s.handleSchema)
		r.Post("/layout", s.handleLayout)
		r.Post("/rearrange", s.handleRearrange)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/moves", s.handleMove)
				r.Get("/preview", s.handlePreview)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, notFound("no route for "+r.Method+" "+r.URL.Path))
	})
	return r
}

// runner builds a pipeline runner scoped to the request's tenant.
func (s *Server) runner(r *http.Request) *pipeline.Runner {
	keyer := s.keyer
	if tenant := r.Header.Get(TenantHeader); tenant != "" {
		keyer = cache.NewScopedKeyer(keyer, "tenant:"+tenant)
	}
	return pipeline.NewRunner(s.cache, keyer, s.requestLogger(r))
}

func (s *Server) requestLogger(r *http.Request) *log.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return s.logger.With("request_id", id)
	}
	return s.logger
}

// logRequests logs one line per request and reports it to the server hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.requestLogger(r).Debug("handled request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed)
	})
}
