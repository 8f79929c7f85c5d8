package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starterkit-server/pkg/health"
)

func ok(context.Context) error   { return nil }
func boom(context.Context) error { return errors.New("down") }

func TestEvaluateAllHealthy(t *testing.T) {
	rep := health.Evaluate(context.Background(), time.Second, []health.Check{
		{Name: "database", Required: true, Probe: ok},
		{Name: "cache", Required: false, Probe: ok},
	})
	assert.Equal(t, health.Healthy, rep.Status)
	require.Len(t, rep.Results, 2)
	for _, res := range rep.Results {
		assert.Equal(t, health.Healthy, res.Status)
		assert.NoError(t, res.Err)
	}
}

func TestEvaluateRequiredFailureIsUnhealthy(t *testing.T) {
	rep := health.Evaluate(context.Background(), time.Second, []health.Check{
		{Name: "database", Required: true, Probe: boom},
		{Name: "cache", Required: false, Probe: ok},
	})
	assert.Equal(t, health.Unhealthy, rep.Status)
	assert.Equal(t, health.Unhealthy, rep.Results[0].Status)
	assert.Equal(t, health.Healthy, rep.Results[1].Status)
}

func TestEvaluateOptionalFailureOnlyDegrades(t *testing.T) {
	rep := health.Evaluate(context.Background(), time.Second, []health.Check{
		{Name: "database", Required: true, Probe: ok},
		{Name: "cache", Required: false, Probe: boom},
	})
	assert.Equal(t, health.Degraded, rep.Status)
}

func TestEvaluateRunsEveryCheckDespiteFailures(t *testing.T) {
	var calls []string
	probe := func(name string, err error) func(context.Context) error {
		return func(context.Context) error {
			calls = append(calls, name)
			return err
		}
	}
	rep := health.Evaluate(context.Background(), time.Second, []health.Check{
		{Name: "a", Required: true, Probe: probe("a", errors.New("down"))},
		{Name: "b", Required: true, Probe: probe("b", nil)},
		{Name: "c", Required: false, Probe: probe("c", nil)},
	})
	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.Equal(t, health.Unhealthy, rep.Status)
}

// A dependency that recovers must be seen as healthy on the very next
// evaluation; nothing may be cached between calls.
func TestEvaluateDoesNotCacheResults(t *testing.T) {
	var failing = true
	checks := []health.Check{{
		Name:     "database",
		Required: true,
		Probe: func(context.Context) error {
			if failing {
				return errors.New("connection refused")
			}
			return nil
		},
	}}

	rep := health.Evaluate(context.Background(), time.Second, checks)
	assert.Equal(t, health.Unhealthy, rep.Status)

	failing = false
	rep = health.Evaluate(context.Background(), time.Second, checks)
	assert.Equal(t, health.Healthy, rep.Status)
}

func TestEvaluateAppliesTimeoutPerCheck(t *testing.T) {
	rep := health.Evaluate(context.Background(), 10*time.Millisecond, []health.Check{{
		Name:     "slow",
		Required: true,
		Probe: func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
				return nil
			}
		},
	}})
	assert.Equal(t, health.Unhealthy, rep.Status)
	assert.ErrorIs(t, rep.Results[0].Err, context.DeadlineExceeded)
}
