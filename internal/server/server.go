// Package server provides the HireFlow HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/hireflow/internal/config"
	"github.com/jonathan/hireflow/internal/logger"
	"github.com/jonathan/hireflow/internal/mailer"
	"github.com/jonathan/hireflow/internal/metrics"
	"github.com/jonathan/hireflow/internal/prompts"
	"github.com/jonathan/hireflow/internal/server/ratelimit"
	"github.com/jonathan/hireflow/internal/suggestion"
	"github.com/jonathan/hireflow/internal/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Suggester produces company suggestions.
type Suggester interface {
	Suggest(ctx context.Context, in prompts.SuggestionInput, variant types.Variant) (suggestion.Result, error)
	Live() bool
}

// Options holds the dependencies of a Server.
type Options struct {
	Config    *config.Config
	Logger    logger.Logger
	Suggester Suggester
	Sender    mailer.Sender
	Renderer  *mailer.Renderer
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	log         logger.Logger
	suggester   Suggester
	sender      mailer.Sender
	renderer    *mailer.Renderer
	validator   *validator.Validate
	rateLimiter *ratelimit.Limiter
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if opts.Suggester == nil {
		return nil, errors.New("server: suggester is required")
	}
	if opts.Sender == nil {
		return nil, errors.New("server: sender is required")
	}

	renderer := opts.Renderer
	if renderer == nil {
		var err error
		if renderer, err = mailer.NewRenderer(); err != nil {
			return nil, err
		}
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}

	s := &Server{
		cfg:         opts.Config,
		log:         log,
		suggester:   opts.Suggester,
		sender:      opts.Sender,
		renderer:    renderer,
		validator:   newValidator(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.FromSettings(opts.Config.RateLimit)),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/suggest-company", s.handleSuggestCompany)
	mux.HandleFunc("POST /api/sugerir-empresa", s.handleSuggestCompany)
	mux.HandleFunc("POST /api/send-email", s.handleSendEmail)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := opts.Config.Server
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", srv.Port),
		Handler:           s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:       srv.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      srv.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// newValidator returns a validator that reports fields by their wire names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is like Start but uses an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.rateLimiter.Stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server starting", map[string]interface{}{
			"addr":      ln.Addr().String(),
			"inference": s.inferenceMode(),
		})
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("shutting down server", nil)

		timeout := s.cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.log.Info("server stopped", nil)
	return nil
}

func (s *Server) inferenceMode() string {
	if s.suggester.Live() {
		return "live"
	}
	return "mock"
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.cfg.Server.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging and per-route request counts
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()

		s.log.Debug("request completed", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"remote":   r.RemoteAddr,
			"duration": time.Since(start).String(),
		})
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)

		if !allowed {
			metrics.RateLimitedTotal.WithLabelValues(info.Group).Inc()
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier from the request.
// X-Forwarded-For is not trusted; the remote address is used as-is.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Round(time.Second).Seconds())
		w.Header().Set("Retry-After", strconv.Itoa(max(1, secs)))
	}

	s.log.Warn("rate limit exceeded", map[string]interface{}{
		"limit":    info.Limit,
		"reset_at": info.ResetTime.Format(time.RFC3339),
	})

	s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"inference": s.inferenceMode(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("encoding JSON response", nil)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, types.ErrorResponse{OK: false, Error: message})
}

// fail logs err and writes the matching status with a client-safe message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	fields := map[string]interface{}{"path": r.URL.Path, "status": status}
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed", fields)
	} else {
		s.log.WithError(err).Info("request rejected", fields)
	}
	s.errorResponse(w, status, publicMessage(err))
}
