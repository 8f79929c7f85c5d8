package routes

import (
	"context"
	"time"

	"starterkit-server/pkg/health"
)

// Pinger is the single round-trip the probes need from the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds the dependencies required by the route handlers. Built once
// in main and injected; handlers own no process-wide state.
type Deps struct {
	DB            Pinger
	Checks        []health.Check
	Name          string
	Version       string
	Env           string
	StartedAt     time.Time
	HealthTimeout time.Duration
}
