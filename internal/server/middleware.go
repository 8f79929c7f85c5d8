package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"starterkit-server/internal/logging"
	"starterkit-server/pkg/httpx"
	"starterkit-server/pkg/requestctx"
)

// StartHTTP starts the HTTP server and blocks until it stops. Cancelling
// ctx triggers a graceful shutdown.
func StartHTTP(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("api.shutdown_failed")
		}
	}()
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		// Wait for in-flight requests to drain.
		<-done
	}
	return err
}

// withRequestID adopts a caller-supplied X-Request-ID or generates one,
// and binds it to the request context. The response header is set before
// the handler runs so it survives every exit path, failure included.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(httpx.RequestIDHeader)
		if rid == "" {
			rid = xid.New().String()
		}
		w.Header().Set(httpx.RequestIDHeader, rid)

		host := r.RemoteAddr
		if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			host = h
		}
		ctx := requestctx.WithRequestID(r.Context(), rid)
		ctx = requestctx.WithMeta(ctx, requestctx.Meta{
			ID:         rid,
			Start:      time.Now(),
			Method:     r.Method,
			Path:       r.URL.Path,
			ClientHost: host,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
	wrote  bool
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.wrote = true
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.wrote = true
	n, err := sw.ResponseWriter.Write(b)
	sw.size += n
	return n, err
}

// withLogging emits one api.request_started record before the handler and
// exactly one api.request_completed or api.request_failed after. A panic
// is recovered, logged with its stack, and mapped to a generic 500; it is
// never swallowed silently and never leaks the panic value to the client.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta, ok := requestctx.GetMeta(r.Context())
		if !ok {
			meta = requestctx.Meta{
				ID:     requestctx.RequestID(r.Context()),
				Start:  time.Now(),
				Method: r.Method,
				Path:   r.URL.Path,
			}
		}
		logger := logging.FromContext(r.Context())
		logger.Info().
			Str("method", meta.Method).
			Str("path", meta.Path).
			Str("client_host", meta.ClientHost).
			Msg("api.request_started")

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error().
				Str("method", meta.Method).
				Str("path", meta.Path).
				Str("error", fmt.Sprint(rec)).
				Str("error_type", fmt.Sprintf("%T", rec)).
				Str("stack", string(debug.Stack())).
				Float64("duration_seconds", time.Since(meta.Start).Seconds()).
				Msg("api.request_failed")
			if !sw.wrote {
				httpx.WriteJSON(sw, http.StatusInternalServerError, map[string]any{
					"error": map[string]any{
						"code":       "internal",
						"message":    "internal server error",
						"request_id": meta.ID,
					},
				})
			}
		}()
		next.ServeHTTP(sw, r)
		logger.Info().
			Str("method", meta.Method).
			Str("path", meta.Path).
			Int("status_code", sw.status).
			Int("size", sw.size).
			Float64("duration_seconds", time.Since(meta.Start).Seconds()).
			Msg("api.request_completed")
	})
}

// withCORS adds CORS headers and handles preflight.
func withCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				allowed := len(allowedOrigins) == 0
				for _, o := range allowedOrigins {
					if o == "*" || strings.EqualFold(o, origin) {
						allowed = true
						break
					}
				}
				if allowed {
					if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
						w.Header().Set("Access-Control-Allow-Origin", "*")
					} else {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						w.Header().Add("Vary", "Origin")
					}
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+httpx.RequestIDHeader)
					w.Header().Set("Access-Control-Expose-Headers", httpx.RequestIDHeader)
					w.Header().Set("Access-Control-Max-Age", "600")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// withSecurityHeaders sets common security headers for an API.
func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'")
		next.ServeHTTP(w, r)
	})
}
