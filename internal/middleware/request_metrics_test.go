package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMetrics(t *testing.T) {
	metricsManager, reg := metrics.NewTestManagerAndRegistry()

	r := mux.NewRouter()
	r.HandleFunc("/coach/{userId}/stats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Use(RequestMetrics(metricsManager))

	for _, user := range []string{"u1", "u2", "u3"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/coach/"+user+"/stats", nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(metricsManager.CounterRequests.WithLabelValues("GET", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.GaugeRequests))

	// user ids stay out of the route label
	count, err := testutil.GatherAndCount(reg, "fitcoach_test_server_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
