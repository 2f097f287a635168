// Package server exposes the interception pipeline over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/askiada/go-interceptor/internal/config"
	"github.com/askiada/go-interceptor/pkg/gateway"
	"github.com/askiada/go-interceptor/pkg/pipeline"
)

const (
	serviceName = "interceptord"

	defaultShutdownTimeout = 10 * time.Second
)

type Server struct {
	Router *chi.Mux
	cfg    config.ServerConfig
	logger zerolog.Logger
}

// New wires the router: every request except the health check goes through pipe before
// reaching the upstream.
func New(cfg config.ServerConfig, logger zerolog.Logger, pipe *pipeline.Pipeline[any]) (*Server, error) {
	if pipe == nil {
		return nil, errors.New("server needs a pipeline")
	}

	upstream, err := newUpstream(cfg.Upstream)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.With(gateway.Middleware(pipe, logger)).Handle("/*", upstream)

	return &Server{
		Router: r,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on %s", s.cfg.Addr)
	}

	return s.Serve(ctx, lis)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:      s.Router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", lis.Addr().String()).Msg("starting server")
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout == 0 {
		timeout = defaultShutdownTimeout
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	s.logger.Info().Msg("shutting down server")

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return errors.Wrap(err, "unable to shut down server")
	}

	return nil
}
