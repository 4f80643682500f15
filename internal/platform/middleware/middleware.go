// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

The chain wraps every handler in the same order on every route:

  - Trace: request ID generation for log correlation.
  - Log: structured per-request logging (slog) with a context logger.
  - Guard: rate limiting, CORS, and on staff routes session + CSRF checks.
  - Safe: panic recovery so one bad request cannot take the server down.

Session, role and CSRF enforcement live in session.go; this file holds
the parts shared by the public and staff surfaces.
*/
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/ctxutil"
	requestutil "github.com/dmunteanu/primaria/internal/platform/request"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request. A client-supplied
// X-Request-ID is honored so the admin SPA can stitch its own traces to
// server logs; otherwise a time-sortable UUIDv7 is minted.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = newRequestID()
			}

			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func newRequestID() string {
	uuidV7, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return uuidV7.String()
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger emits one line per finished request and plants a
// request-scoped logger (request ID, method, path, IP pre-attached) in
// the context for downstream handlers.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", requestutil.RealIP(request)),
			)

			// The relay lets the authentication middleware, which runs in a
			// child context this middleware never sees, surface the actor
			// for the final log line.
			ctx := ctxutil.WithPrincipalRelay(ctxutil.WithLogger(request.Context(), requestLogger))
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
			next.ServeHTTP(wrappedWriter, request.WithContext(ctx))

			logLevel := slog.LevelInfo
			switch {
			case wrappedWriter.status >= 500:
				logLevel = slog.LevelError
			case wrappedWriter.status >= 400:
				logLevel = slog.LevelWarn
			}

			logAttrs := []any{
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			// Staff requests carry the actor so the access log can be
			// cross-read with the audit trail.
			if principal := ctxutil.RelayedPrincipal(ctx); principal != nil {
				logAttrs = append(logAttrs, slog.Int64("user_id", principal.UserID))
			}

			requestLogger.Log(ctx, logLevel, "http_request_finished", logAttrs...)
		})
	}
}

// # Rate Limiting

// limiterRegistry tracks one token bucket per client IP. State is
// process-local; a horizontally scaled deployment would need to move it
// to a shared store.
type limiterRegistry struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// allow reports whether the request from ip fits in its bucket,
// creating the bucket on first sight.
func (registry *limiterRegistry) allow(ip string) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	bucket, found := registry.clients[ip]
	if !found {
		bucket = &clientBucket{
			limiter: rate.NewLimiter(
				rate.Limit(constants.DefaultRateLimitRPS),
				constants.DefaultRateLimitBurst,
			),
		}
		registry.clients[ip] = bucket
	}
	bucket.lastSeen = time.Now()
	return bucket.limiter.Allow()
}

// sweep drops buckets for IPs idle past the client TTL until the
// application context is cancelled.
func (registry *limiterRegistry) sweep(context context.Context) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			registry.mu.Lock()
			for ip, bucket := range registry.clients {
				if time.Since(bucket.lastSeen) > constants.RateLimitClientTTL {
					delete(registry.clients, ip)
				}
			}
			registry.mu.Unlock()
		case <-context.Done():
			return
		}
	}
}

// RateLimit enforces a per-IP token bucket across the whole API. The
// context bounds the lifetime of the background sweep goroutine.
func RateLimit(context context.Context) func(http.Handler) http.Handler {
	registry := &limiterRegistry{clients: make(map[string]*clientBucket)}
	go registry.sweep(context)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !registry.allow(requestutil.RealIP(request)) {
				writeError(writer, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded")
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// # Reliability & Safety

// PanicRecovery converts a downstream panic into a logged 500.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stackTrace := make([]byte, 2048)
					length := runtime.Stack(stackTrace, false)

					ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", err),
						slog.String("stack", string(stackTrace[:length])),
					)

					writeError(writer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig is the slice of configuration the CORS middleware needs.
type AppConfig interface {
	IsDevelopment() bool
	ExtraAllowedOrigins() []string
}

// CORS answers cross-origin requests from the public site and the admin
// SPA. Development allows any origin; production allows subdomains of the
// town hall's domain plus the configured extra origins. Credentials are
// always allowed because the staff session rides a cookie.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if originAllowed(cfg, origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, X-CSRF-Token, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", "300")
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func originAllowed(cfg AppConfig, origin string) bool {
	if cfg.IsDevelopment() {
		return true
	}
	if strings.HasSuffix(origin, "primaria.ro") {
		return true
	}
	for _, allowed := range cfg.ExtraAllowedOrigins() {
		if origin == allowed {
			return true
		}
	}
	return false
}

// # Middleware Helpers

// writeError emits a minimal error envelope. Used where the full
// respond package would create an import cycle.
func writeError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{
		constants.FieldCode:  code,
		constants.FieldError: message,
	})
}
