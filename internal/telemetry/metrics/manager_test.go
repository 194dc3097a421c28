package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	promcl "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Confidence(t *testing.T) {
	manager, reg := NewTestManagerAndRegistry()

	manager.HistogramConfidence.Observe(0.72)
	manager.HistogramConfidence.Observe(0.58)
	manager.CounterPredictions.WithLabelValues("low").Add(2)

	assert.Equal(t, float64(2), testutil.ToFloat64(manager.CounterPredictions.WithLabelValues("low")))

	gathered, err := reg.Gather()
	require.NoError(t, err)

	var confidenceHistogram *promcl.MetricFamily
	for _, m := range gathered {
		if m.GetName() == "fitcoach_test_server_prediction_confidence" {
			confidenceHistogram = m
			break
		}
	}
	if confidenceHistogram == nil {
		t.Fatal("confidence histogram not gathered")
	}

	require.Len(t, confidenceHistogram.Metric, 1)
	hist := confidenceHistogram.Metric[0].GetHistogram()
	require.NotNil(t, hist)
	assert.Equal(t, uint64(2), hist.GetSampleCount())
	assert.InDelta(t, 1.3, hist.GetSampleSum(), 1e-9)
}

func TestSetupPrometheus(t *testing.T) {
	reg := SetupPrometheus(NewTestManager().CounterPlans)

	NewManager("fitcoach", "main", reg).CounterPlans.Inc()

	count, err := testutil.GatherAndCount(reg, "fitcoach_main_plans_generated", "fitcoach_test_server_plans_generated")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
