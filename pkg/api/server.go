// Package api exposes canvas storage and projections over HTTP.
//
// Routes (all JSON):
//
//	GET    /healthz                     liveness probe
//	GET    /v1/canvases                 list stored canvases
//	PUT    /v1/canvases/{id}            create or replace a canvas
//	GET    /v1/canvases/{id}            fetch a canvas document
//	DELETE /v1/canvases/{id}            delete a canvas
//	GET    /v1/canvases/{id}/layout     spatial projection of a stored canvas
//	GET    /v1/canvases/{id}/timeline   temporal projection of a stored canvas
//	POST   /v1/layout                   stateless projection of a posted canvas
//	POST   /v1/timeline                 stateless projection of a posted canvas
//	POST   /v1/dropzone?x=&y=           resolve an insertion for a posted canvas
//
// Projections are recomputed from the stored node set on every request;
// no geometry is ever persisted. Integrity warnings ride along in the
// response body instead of failing the request.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/storyreel/reelgraph/pkg/store"
)

// Server serves the reelgraph HTTP API.
type Server struct {
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// NewServer creates a server backed by the given store.
// A nil logger falls back to the default logger.
func NewServer(s store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	srv := &Server{store: s, logger: logger}
	srv.router = srv.routes()
	return srv
}

// Handler returns the server's root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/canvases", func(r chi.Router) {
			r.Get("/", s.handleListCanvases)
			r.Route("/{canvasID}", func(r chi.Router) {
				r.Put("/", s.handlePutCanvas)
				r.Get("/", s.handleGetCanvas)
				r.Delete("/", s.handleDeleteCanvas)
				r.Get("/layout", s.handleCanvasLayout)
				r.Get("/timeline", s.handleCanvasTimeline)
			})
		})
		r.Post("/layout", s.handlePostLayout)
		r.Post("/timeline", s.handlePostTimeline)
		r.Post("/dropzone", s.handlePostDropZone)
	})

	return r
}

// ListenAndServe runs the server on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("serving reelgraph API", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
