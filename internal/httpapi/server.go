package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sprintcap/internal/planning"

	"github.com/rs/zerolog"
)

// Options configure the HTTP API.
type Options struct {
	Concurrency    int
	EnableMermaid  bool
	RequestTimeout time.Duration
}

type Server struct {
	srv    *http.Server
	logger zerolog.Logger
}

func New(addr string, logger zerolog.Logger, source planning.Source, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 2 * time.Minute
	}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(logger, source, opts),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		srv:    httpSrv,
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.srv.Addr).Msg("http server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("http server stopping")
	return s.srv.Shutdown(ctx)
}
