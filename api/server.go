/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/suparena/mothership/registry"
	"github.com/suparena/mothership/storagemodels"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Directory is the registry behaviour the HTTP layer needs
type Directory interface {
	Register(ctx context.Context, p registry.RegisterParams) error
	Resolve(ctx context.Context, topic string) (*storagemodels.Resolution, error)
}

// Server exposes a Directory over HTTP.
// Create one with New, start it with Serve or ListenAndServe.
type Server struct {
	dir       Directory
	log       logrus.FieldLogger
	nodeID    string
	version   string
	startedAt strfmt.DateTime
	gatherer  prometheus.Gatherer
	metrics   *Metrics
	router    *mux.Router
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger for request and lifecycle logs
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithNodeID sets the instance id reported by /health
func WithNodeID(id string) Option {
	return func(s *Server) {
		s.nodeID = id
	}
}

// WithVersion sets the build version reported by /health
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// New creates a Server. Each Server owns its own metrics registry.
func New(dir Directory, opts ...Option) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		dir:       dir,
		log:       logrus.StandardLogger(),
		version:   "dev",
		startedAt: strfmt.DateTime(time.Now().UTC()),
		gatherer:  reg,
		metrics:   NewMetrics(reg),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	m := mux.NewRouter().UseEncodedPath()
	m.Use(s.logRequests)

	m.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	m.HandleFunc("/topics/{topic_name}", s.handleResolve).Methods(http.MethodGet)
	m.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	m.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return m
}

// ListenAndServe listens on addr and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.WithField("addr", ln.Addr().String()).Info("web server is listening")

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
