// Package logging configures the process-wide structured logger.
//
// Every record is a single self-contained JSON object on one line, so
// logs stay grep-able and machine-parseable. Event names follow the
// dotted convention {domain}.{component}.{action}_{state} with state one
// of started, completed, failed, validated, rejected:
//
//	api.request_started
//	database.connection_initialized
//	database.health_check_failed
//
// Records emitted while a request is in flight are enriched with its
// request_id automatically; use FromContext instead of the global logger
// inside handlers.
package logging

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"starterkit-server/pkg/requestctx"
)

// Setup configures the global zerolog logger. Call once at startup,
// before anything logs.
func Setup(level, env string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "timestamp"
	zerolog.MessageFieldName = "event"

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(os.Stdout).Level(lvl).With().
		Timestamp().
		Str("env", env).
		Logger()
}

// FromContext returns a logger bound to the request id carried by ctx.
// Callers never thread the id by hand; outside a request scope the field
// is simply absent so background logs stay well-formed.
func FromContext(ctx context.Context) zerolog.Logger {
	if id := requestctx.RequestID(ctx); id != requestctx.None {
		return log.With().Str("request_id", id).Logger()
	}
	return log.Logger
}
