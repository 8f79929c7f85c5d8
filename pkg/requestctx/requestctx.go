// Package requestctx carries per-request identity through a context.Context.
// Because the id rides the request's own context, isolation between
// concurrently executing requests is structural: there is no shared
// mutable state and nothing to clear at request exit.
package requestctx

import (
	"context"
	"time"
)

// None is what RequestID returns outside a request scope. Background and
// startup code can log without guarding against a missing id.
const None = ""

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	metaKey      ctxKey = "request_meta"
)

// Meta describes the inbound request a context belongs to. One instance
// per request; it is never shared across requests.
type Meta struct {
	ID         string
	Start      time.Time
	Method     string
	Path       string
	ClientHost string
}

// WithRequestID returns a new context carrying the provided request ID.
// The id is immutable for the life of the request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID fetches the request ID from the context, or None if the
// context does not belong to a request.
func RequestID(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDKey).(string); ok {
		return s
	}
	return None
}

// WithMeta returns a new context carrying the request metadata.
func WithMeta(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, metaKey, m)
}

// GetMeta fetches the request metadata from the context, if any.
func GetMeta(ctx context.Context) (Meta, bool) {
	m, ok := ctx.Value(metaKey).(Meta)
	return m, ok
}
