// Package health evaluates named dependency probes into a tri-state
// report. Probes run on every evaluation; nothing is cached, so a
// recovered dependency is observed on the very next call.
package health

import (
	"context"
	"time"
)

// Status is the outcome of a probe or of an aggregated report.
type Status string

const (
	Healthy   Status = "healthy"
	Degraded  Status = "degraded"
	Unhealthy Status = "unhealthy"
)

// Check is a single named dependency probe. Probe must be cheap, safe to
// call repeatedly, and must honor ctx cancellation.
type Check struct {
	Name     string
	Required bool
	Probe    func(ctx context.Context) error
}

// Result is the outcome of one check within a report.
type Result struct {
	Name   string
	Status Status
	Err    error
}

// Report aggregates check results. A failed required check makes the
// report unhealthy; failures limited to optional checks degrade it.
type Report struct {
	Status  Status
	Results []Result
}

// Evaluate runs every check under its own timeout and aggregates the
// outcomes. Checks do not share failure state; one probe's error never
// short-circuits the others.
func Evaluate(ctx context.Context, timeout time.Duration, checks []Check) Report {
	rep := Report{Status: Healthy}
	for _, c := range checks {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		err := c.Probe(cctx)
		cancel()

		res := Result{Name: c.Name, Status: Healthy, Err: err}
		if err != nil {
			if c.Required {
				res.Status = Unhealthy
				rep.Status = Unhealthy
			} else {
				res.Status = Degraded
				if rep.Status == Healthy {
					rep.Status = Degraded
				}
			}
		}
		rep.Results = append(rep.Results, res)
	}
	return rep
}
