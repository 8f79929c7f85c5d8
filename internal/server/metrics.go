package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Count of handled HTTP requests by method and status code.",
	}, []string{"method", "status"})

	httpRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Wall-clock latency of handled HTTP requests.",
		Buckets: prometheus.DefBuckets,
	})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Number of requests currently being served.",
	})
)

func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			httpRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(sw.status)).Inc()
			httpRequestDuration.Observe(time.Since(start).Seconds())
		}()
		next.ServeHTTP(sw, r)
	})
}
