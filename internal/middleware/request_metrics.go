package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

func RequestMetrics(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			begin := time.Now()
			metricsManager.GaugeRequests.Inc()
			defer metricsManager.GaugeRequests.Dec()

			resp := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(resp, req)

			status := strconv.Itoa(resp.statusCode)
			metricsManager.CounterRequests.With(prometheus.Labels{
				"method": req.Method,
				"status": status,
			}).Inc()
			metricsManager.HistogramRequestDuration.With(prometheus.Labels{
				"route":       routeTemplate(req),
				"method":      req.Method,
				"status_code": status,
			}).Observe(time.Since(begin).Seconds())
		})
	}
}

// routeTemplate keeps the label cardinality low, user ids must not end up in label values.
func routeTemplate(req *http.Request) string {
	if route := mux.CurrentRoute(req); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unknown"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.statusCode = statusCode
}
