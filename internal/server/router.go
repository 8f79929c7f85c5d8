package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"starterkit-server/internal/routes"
)

type Server struct {
	deps    routes.Deps
	origins []string
}

func New(d routes.Deps, corsOrigins []string) *Server {
	return &Server{deps: d, origins: corsOrigins}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Endpoints declared here for easy scanning
	mux.HandleFunc("GET /health", routes.Health(s.deps))
	mux.HandleFunc("GET /health/db", routes.HealthDB(s.deps))
	mux.HandleFunc("GET /health/ready", routes.HealthReady(s.deps))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Logging sits innermost so its panic recovery writes the 500 that
	// metrics then observes.
	var h http.Handler = mux
	h = withLogging(h)
	h = withMetrics(h)
	h = withCORS(s.origins)(h)
	h = withSecurityHeaders(h)
	h = withRequestID(h)
	return h
}
