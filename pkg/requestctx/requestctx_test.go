package requestctx_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starterkit-server/pkg/requestctx"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := requestctx.WithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", requestctx.RequestID(ctx))
}

func TestRequestIDOutsideScope(t *testing.T) {
	assert.Equal(t, requestctx.None, requestctx.RequestID(context.Background()))
}

func TestMetaRoundTrip(t *testing.T) {
	m := requestctx.Meta{
		ID:         "abc-123",
		Start:      time.Now(),
		Method:     "GET",
		Path:       "/health",
		ClientHost: "127.0.0.1",
	}
	ctx := requestctx.WithMeta(context.Background(), m)
	got, ok := requestctx.GetMeta(ctx)
	require.True(t, ok)
	assert.Equal(t, m, got)

	_, ok = requestctx.GetMeta(context.Background())
	assert.False(t, ok)
}

// Ids set on one request's context must never be visible to another
// concurrently executing request.
func TestNoCrossTalkBetweenConcurrentContexts(t *testing.T) {
	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		id := fmt.Sprintf("worker-%d", i)
		go func(id string) {
			defer wg.Done()
			ctx := requestctx.WithRequestID(context.Background(), id)
			for j := 0; j < 100; j++ {
				if got := requestctx.RequestID(ctx); got != id {
					t.Errorf("request id leaked: want %q, got %q", id, got)
					return
				}
			}
		}(id)
	}
	wg.Wait()
}
