// Package middleware provides HTTP middleware for the inventory server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/artpar/inventory/internal/shell/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
)

// =============================================================================
// Observe Middleware
// =============================================================================

// ObserveConfig holds configuration for the observe middleware.
type ObserveConfig struct {
	// Logger receives one line per request.
	Logger *slog.Logger

	// SkipLogging lists paths served without a log line, e.g. /metrics.
	// They are still counted.
	SkipLogging []string
}

// Observe logs each request and records its metrics under the route
// pattern that served it.
type Observe struct {
	config ObserveConfig
	skip   map[string]bool
}

// NewObserve creates a new observe middleware with the given config.
func NewObserve(cfg ObserveConfig) *Observe {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	skip := make(map[string]bool, len(cfg.SkipLogging))
	for _, p := range cfg.SkipLogging {
		skip[p] = true
	}
	return &Observe{config: cfg, skip: skip}
}

// Handler returns the middleware handler function.
//
// A chi route context is installed before the request reaches any chi
// router further down, so the pattern chi matched is readable afterwards.
// Routes matched by the outer gorilla router report their path template.
func (o *Observe) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rctx := chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := RoutePattern(r, rctx)
		elapsed := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

		if o.skip[r.URL.Path] {
			return
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		o.config.Logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"remote_addr", r.RemoteAddr,
		)
	})
}

// RoutePattern names the route that served r. Unmatched requests report
// "unmatched" so arbitrary paths never become metric labels.
func RoutePattern(r *http.Request, rctx *chi.Context) string {
	if rctx != nil {
		if p := rctx.RoutePattern(); p != "" && p != "/*" {
			return p
		}
	}
	if cur := mux.CurrentRoute(r); cur != nil {
		if tmpl, err := cur.GetPathTemplate(); err == nil && tmpl != "/" {
			return tmpl
		}
	}
	return "unmatched"
}
