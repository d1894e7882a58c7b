package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lexich/openapi/configurator"
	"github.com/lexich/openapi/loader"
	"github.com/lexich/openapi/transformer"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderWarnings  = "X-Tsgen-Warnings"

	shutdownTimeout = 10 * time.Second
)

// Server exposes generation over HTTP.
type Server struct {
	config      *configurator.Config     `di.inject:"config"`
	transformer *transformer.Transformer `di.inject:"transformer"`
	logger      *zap.Logger              `di.inject:"logger"`
}

func New(config *configurator.Config, transformer *transformer.Transformer, logger *zap.Logger) *Server {
	return &Server{config: config, transformer: transformer, logger: logger}
}

// Router builds the HTTP routes. Each router has its own rate limiter.
func (server *Server) Router() http.Handler {
	limit := rate.Inf
	if server.config.RateLimit > 0 {
		limit = rate.Limit(server.config.RateLimit)
	}

	router := chi.NewRouter()
	router.Use(server.requestID, middleware.Recoverer)

	router.Get("/healthz", server.healthz)
	router.With(server.rateLimit(rate.NewLimiter(limit, server.config.RateBurst))).Post("/generate", server.generate)

	return router
}

// ListenAndServe serves until ctx is done, then drains open requests.
func (server *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              server.config.Listen,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	failed := make(chan error, 1)
	go func() {
		server.logger.Info("server listening", zap.String("listen", server.config.Listen))
		failed <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-failed:
		return errors.Wrapf(err, "listening on %s", server.config.Listen)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	server.logger.Info("server shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down server")
	}

	return nil
}

func (server *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}

func (server *Server) rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				server.logger.Warn("rate limited", zap.String("request_id", w.Header().Get(HeaderRequestID)))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (server *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (server *Server) generate(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	logger := server.logger.With(zap.String("request_id", w.Header().Get(HeaderRequestID)))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, server.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
			return
		}

		http.Error(w, "reading request body failed", http.StatusBadRequest)
		return
	}

	document, err := loader.Decode(r.Context(), body)
	if err != nil {
		logger.Info("rejected document", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := server.transformer.Transform(r.Context(), document)
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
		http.Error(w, "generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/typescript; charset=utf-8")
	w.Header().Set(HeaderWarnings, strconv.Itoa(len(result.Warnings)))
	_, _ = io.WriteString(w, result.Code)

	logger.Info("generated over http",
		zap.Int("bytes", len(body)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", time.Since(started)))
}
