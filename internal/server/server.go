// Package server exposes card stacks over HTTP.
//
// Each session owns a controller behind a [swipe.Driver] whose ticker
// advances settle animations in real time, so a client only sends pointer
// events and polls frames:
//
//	POST   /sessions                    create, optional JSON overrides
//	GET    /sessions/{id}               state, top, offset, progress, order
//	POST   /sessions/{id}/drag/start    {"x":..,"y":..,"target":..}
//	POST   /sessions/{id}/drag/update   {"x":..,"y":..}
//	POST   /sessions/{id}/drag/end      {"velocity":..}
//	POST   /sessions/{id}/swipe         {"direction":"forward"|"backward"}
//	POST   /sessions/{id}/reset
//	GET    /sessions/{id}/frame         layers, back to front
//	GET    /sessions/{id}/frame.svg
//	DELETE /sessions/{id}
//	GET    /healthz
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/swipestack/internal/config"
	"github.com/matzehuels/swipestack/pkg/swipe"
)

const headerRequestID = "X-Request-Id"

// Options configures a [Server].
type Options struct {
	// Settings are the defaults new sessions start from.
	Settings config.Settings
	// Logger receives request logs. Nil discards them.
	Logger *log.Logger
	// FrameInterval is the driver tick period. Zero means 60 Hz.
	FrameInterval time.Duration
	// MaxSessions caps live sessions. Zero means no cap.
	MaxSessions int
}

// Server is an http.Handler serving swipe sessions.
type Server struct {
	router   chi.Router
	logger   *log.Logger
	settings config.Settings
	interval time.Duration
	sessions *store

	// ctx outlives requests; drivers stop when it is cancelled.
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a server. Call [Server.Close] to stop every session driver.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = swipe.DefaultFrameInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		logger:   logger,
		settings: opts.Settings,
		interval: interval,
		sessions: newStore(opts.MaxSessions),
		ctx:      ctx,
		cancel:   cancel,
	}
	if s.settings.Swipe.ItemWidth == 0 {
		s.settings = config.Default()
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/drag/start", s.dragStart)
			r.Post("/drag/update", s.dragUpdate)
			r.Post("/drag/end", s.dragEnd)
			r.Post("/swipe", s.swipe)
			r.Post("/reset", s.reset)
			r.Get("/frame", s.frame)
			r.Get("/frame.svg", s.frameSVG)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops all sessions.
func (s *Server) Close() {
	s.cancel()
	s.sessions.close()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info("listening", "addr", addr)
	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// requestID ensures every request has a unique X-Request-Id.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"request_id", ww.Header().Get(headerRequestID),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})
}
