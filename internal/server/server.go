// Package server exposes folio over HTTP: the reconciled project list,
// ranked repositories, the synthetic event feed (as JSON and as a websocket
// stream), the terminal interpreter and prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/josz009/folio/pkg/content"
	"github.com/josz009/folio/pkg/portfolio"
	"github.com/josz009/folio/pkg/siem"
	"github.com/josz009/folio/pkg/terminal"
)

// Options configures a [Server].
type Options struct {
	Username        string
	Loader          *portfolio.Loader
	Lister          portfolio.RepositoryLister
	Catalog         *content.Catalog
	Logger          *log.Logger
	Registry        *prometheus.Registry // nil creates a private registry
	Views           []siem.View          // nil means siem.Views
	SnapshotTTL     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the folio HTTP API.
type Server struct {
	opts     Options
	logger   *log.Logger
	router   chi.Router
	metrics  *metrics
	interp   *terminal.Interpreter
	upgrader websocket.Upgrader

	views map[string]*viewState
	order []string

	snapMu sync.Mutex
	snaps  map[string]cachedSnapshot

	startOnce sync.Once
	stopOnce  sync.Once
}

type viewState struct {
	sim     *siem.Simulator
	hub     *hub
	cancel  func()
	pumping sync.WaitGroup
}

type cachedSnapshot struct {
	snap    *portfolio.Snapshot
	expires time.Time
}

// New creates a server. Call [Server.Start] before serving event routes.
func New(opts Options) (*Server, error) {
	if opts.Catalog == nil {
		c, err := content.Default()
		if err != nil {
			return nil, err
		}
		opts.Catalog = c
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Views == nil {
		opts.Views = siem.Views
	}
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = 5 * time.Minute
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.Loader == nil {
		opts.Loader = portfolio.NewLoader(opts.Lister, opts.Catalog.Curated(), opts.Logger)
	}

	s := &Server{
		opts:    opts,
		logger:  opts.Logger,
		metrics: newMetrics(opts.Registry),
		interp:  terminal.New(opts.Catalog),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		views: make(map[string]*viewState, len(opts.Views)),
		snaps: make(map[string]cachedSnapshot),
	}
	for _, v := range opts.Views {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		s.views[v.Name] = &viewState{
			sim: siem.NewSimulator(v, opts.Logger),
			hub: newHub(v.Name, opts.Logger),
		}
		s.order = append(s.order, v.Name)
	}
	s.metrics.install()
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start activates every event view and begins streaming its events.
func (s *Server) Start(ctx context.Context) error {
	var err error
	s.startOnce.Do(func() {
		for _, name := range s.order {
			vs := s.views[name]
			events, cancel := vs.sim.Subscribe(32)
			vs.cancel = cancel
			vs.sim.OnTick = func(t time.Time) {
				vs.hub.Broadcast(mustJSON(streamMessage{Type: "tick", Time: t.UTC().Format(time.RFC3339)}))
			}
			if err = vs.sim.Activate(ctx); err != nil {
				cancel()
				return
			}
			vs.pumping.Add(1)
			go s.pump(vs, events)
			s.logger.Info("event view active", "view", name)
		}
	})
	return err
}

func (s *Server) pump(vs *viewState, events <-chan siem.Event) {
	defer vs.pumping.Done()
	for ev := range events {
		e := ev
		vs.hub.Broadcast(mustJSON(streamMessage{Type: "event", Event: &e}))
	}
}

// Stop deactivates every view and disconnects stream subscribers.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		for _, name := range s.order {
			vs := s.views[name]
			vs.sim.Deactivate()
			if vs.cancel != nil {
				vs.cancel()
			}
			vs.pumping.Wait()
			vs.hub.Stop()
		}
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer s.Stop()

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	// Stream connections are hijacked and not tracked by Shutdown.
	s.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", s.handleProfile)
		r.Get("/profile/projects/{title}", s.handleFeatured)
		r.Get("/projects", s.handleProjects)
		r.Get("/repos", s.handleRepos)
		r.Get("/events", s.handleEvents)
		r.Get("/events/stream", s.handleStream)
		r.Post("/terminal", s.handleTerminal)
	})
	return r
}

// instrument logs and records every request under its route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rc := chi.RouteContext(req.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.observeRequest(req.Method, route, status, elapsed)
		s.logger.Debug("request", "method", req.Method, "route", route, "status", status,
			"duration", elapsed, "request_id", middleware.GetReqID(req.Context()))
	})
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
