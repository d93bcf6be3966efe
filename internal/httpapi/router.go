package httpapi

import (
	"net/http"
	"time"

	"sprintcap/internal/planning"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func newRouter(logger zerolog.Logger, source planning.Source, opts Options) http.Handler {
	h := &handler{
		source: source,
		opts:   opts,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(requestLogger(logger))

	r.Get("/health", h.handleHealth)

	r.Route("/teams", func(r chi.Router) {
		r.Get("/", h.handleTeams)
		r.Get("/{team}/iterations", h.handleIterations)
		r.Get("/{team}/report", h.handleReport)
	})

	return r
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
