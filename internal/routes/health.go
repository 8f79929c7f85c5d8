package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"starterkit-server/internal/logging"
	"starterkit-server/pkg/health"
	"starterkit-server/pkg/httpx"
)

// Health is the liveness probe: 200 whenever the process can execute
// code. It never touches a dependency and never blocks on I/O.
func Health(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(d.StartedAt).Seconds())
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":         health.Healthy,
			"service":        d.Name,
			"version":        d.Version,
			"uptime_seconds": uptime,
		})
	}
}

// HealthDB verifies database connectivity with a trivial round-trip under
// a bounded timeout. The underlying error is logged, not surfaced to the
// probe caller.
func HealthDB(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d.HealthTimeout)
		defer cancel()

		if err := d.DB.Ping(ctx); err != nil {
			logger := logging.FromContext(r.Context())
			logger.Error().
				Str("error", err.Error()).
				Str("error_type", fmt.Sprintf("%T", err)).
				Msg("database.health_check_failed")
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  health.Unhealthy,
				"service": "database",
			})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":   health.Healthy,
			"service":  "database",
			"provider": "postgresql",
		})
	}
}

// HealthReady gates traffic routing: 200 only while every required
// dependency answers. Optional dependencies degrade the report without
// failing it.
func HealthReady(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep := health.Evaluate(r.Context(), d.HealthTimeout, d.Checks)

		checks := make(map[string]string, len(rep.Results))
		for _, res := range rep.Results {
			checks[res.Name] = string(res.Status)
			if res.Err != nil {
				logger := logging.FromContext(r.Context())
				logger.Error().
					Str("check", res.Name).
					Str("error", res.Err.Error()).
					Str("error_type", fmt.Sprintf("%T", res.Err)).
					Msg("api.readiness_check_failed")
			}
		}

		status := http.StatusOK
		if rep.Status == health.Unhealthy {
			status = http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, status, map[string]any{
			"status":      rep.Status,
			"environment": d.Env,
			"checks":      checks,
		})
	}
}
