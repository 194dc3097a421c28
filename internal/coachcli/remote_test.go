package coachcli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitcoach/internal/coach"
	"github.com/2beens/fitcoach/internal/coach/store"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func newTestRemote(t *testing.T) *RemoteClient {
	t.Helper()
	r := mux.NewRouter()
	service := coach.NewService(store.NewMemStore(), nil)
	coach.NewHandler(service, metrics.NewTestManager()).SetupRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return NewRemoteClient(srv.URL+"/", &http.Client{
		Transport: otelhttp.NewTransport(srv.Client().Transport),
	})
}

func TestRemoteClient(t *testing.T) {
	client := newTestRemote(t)
	ctx := context.Background()

	_, ok, err := client.GetProfile(ctx, "user 1")
	require.NoError(t, err)
	assert.False(t, ok)

	saved, err := client.SaveProfile(ctx, "user 1", coach.UserProfile{ExperienceLevel: coach.ExperienceAdvanced})
	require.NoError(t, err)
	assert.False(t, saved.CreatedAt.IsZero())

	profile, ok, err := client.GetProfile(ctx, "user 1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, coach.ExperienceAdvanced, profile.ExperienceLevel)

	result, err := client.RecordCheckIn(ctx, "user 1", true, coach.EnergyMedium, "")
	require.NoError(t, err)
	assert.Equal(t, 6, result.Feedback.EnergyNumeric)

	stats, err := client.LogWorkout(ctx, "user 1", coach.WorkoutLog{Completed: true, EnergyLevel: 8})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalWorkouts)

	progress, err := client.GetProgress(ctx, "user 1")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.TotalCheckIns)
	assert.Equal(t, 1, progress.CurrentStreak)

	signals := coach.SessionSignals{EnergyLevel: 8, WorkoutStreak: 10, GoalProgress: 0.9}
	prediction, err := client.Predict(ctx, "user 1", signals)
	require.NoError(t, err)

	plan, err := client.GeneratePlan(ctx, "user 1", signals, &prediction)
	require.NoError(t, err)
	assert.Equal(t, prediction, plan.Prediction)
	assert.NotEmpty(t, plan.Plan.Exercises)

	reply, err := client.CoachResponse(ctx, "user 1", "need motivation", signals)
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Response)

	gotStats, err := client.GetStats(ctx, "user 1")
	require.NoError(t, err)
	assert.Equal(t, stats, gotStats)
}

func TestRemoteClient_Errors(t *testing.T) {
	client := newTestRemote(t)
	ctx := context.Background()

	_, err := client.Predict(ctx, "user-1", coach.SessionSignals{EnergyLevel: 42})
	assert.ErrorIs(t, err, coach.ErrInvalidInput)

	_, err = client.CoachResponse(ctx, "user-1", "", coach.SessionSignals{})
	assert.ErrorIs(t, err, coach.ErrInvalidInput)

	unreachable := NewRemoteClient("http://127.0.0.1:1", &http.Client{})
	_, err = unreachable.GetStats(ctx, "user-1")
	assert.ErrorIs(t, err, coach.ErrStoreUnavailable)
}
