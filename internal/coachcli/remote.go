package coachcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/coach"
	"github.com/2beens/fitcoach/pkg"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RemoteClient talks to the coach routes of a running fitcoach service.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteClient uses a traced client with a sane timeout when httpClient is nil.
func NewRemoteClient(baseURL string, httpClient *http.Client) *RemoteClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &RemoteClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *RemoteClient) Predict(ctx context.Context, userID string, signals coach.SessionSignals) (coach.PredictionResult, error) {
	var prediction coach.PredictionResult
	err := c.do(ctx, http.MethodPost, userID, "predict", coach.NewSignalsRequest(signals), &prediction)
	return prediction, err
}

func (c *RemoteClient) GeneratePlan(
	ctx context.Context,
	userID string,
	signals coach.SessionSignals,
	prediction *coach.PredictionResult,
) (coach.PlanResponse, error) {
	var resp coach.PlanResponse
	req := coach.PlanRequest{SignalsRequest: coach.NewSignalsRequest(signals), Prediction: prediction}
	err := c.do(ctx, http.MethodPost, userID, "plan", req, &resp)
	return resp, err
}

func (c *RemoteClient) RecordCheckIn(
	ctx context.Context,
	userID string,
	workoutCompleted bool,
	energyLevel coach.EnergyLevel,
	notes string,
) (coach.CheckInResult, error) {
	var result coach.CheckInResult
	req := coach.CheckInRequest{
		WorkoutCompleted: &workoutCompleted,
		EnergyLevel:      energyLevel.String(),
		Notes:            notes,
	}
	err := c.do(ctx, http.MethodPost, userID, "checkin", req, &result)
	return result, err
}

func (c *RemoteClient) LogWorkout(ctx context.Context, userID string, workout coach.WorkoutLog) (coach.UserStats, error) {
	var stats coach.UserStats
	err := c.do(ctx, http.MethodPost, userID, "workout", workout, &stats)
	return stats, err
}

func (c *RemoteClient) GetProgress(ctx context.Context, userID string) (coach.ProgressReport, error) {
	var progress coach.ProgressReport
	err := c.do(ctx, http.MethodGet, userID, "progress", nil, &progress)
	return progress, err
}

func (c *RemoteClient) GetStats(ctx context.Context, userID string) (coach.UserStats, error) {
	var stats coach.UserStats
	err := c.do(ctx, http.MethodGet, userID, "stats", nil, &stats)
	return stats, err
}

func (c *RemoteClient) SaveProfile(ctx context.Context, userID string, profile coach.UserProfile) (coach.UserProfile, error) {
	var saved coach.UserProfile
	err := c.do(ctx, http.MethodPut, userID, "profile", profile, &saved)
	return saved, err
}

func (c *RemoteClient) GetProfile(ctx context.Context, userID string) (coach.UserProfile, bool, error) {
	var profile coach.UserProfile
	err := c.do(ctx, http.MethodGet, userID, "profile", nil, &profile)
	if err != nil {
		var statusErr *statusError
		if errors.As(err, &statusErr) && statusErr.code == http.StatusNotFound {
			return coach.UserProfile{}, false, nil
		}
		return coach.UserProfile{}, false, err
	}
	return profile, true, nil
}

func (c *RemoteClient) CoachResponse(
	ctx context.Context,
	userID string,
	message string,
	signals coach.SessionSignals,
) (coach.CoachReply, error) {
	var reply coach.CoachReply
	req := coach.MessageRequest{SignalsRequest: coach.NewSignalsRequest(signals), Message: message}
	err := c.do(ctx, http.MethodPost, userID, "message", req, &reply)
	return reply, err
}

type statusError struct {
	code int
	body string
	// the coach error the status maps to, if any
	cause error
}

func (e *statusError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: status %d: %s", e.cause, e.code, e.body)
	}
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

func (e *statusError) Unwrap() error {
	return e.cause
}

func (c *RemoteClient) do(ctx context.Context, method, userID, route string, reqBody, respBody any) error {
	target := fmt.Sprintf("%s/coach/%s/%s", c.baseURL, url.PathEscape(userID), route)

	var body io.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", route, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("new %s request: %w", route, err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", pkg.ContentType.JSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", coach.ErrStoreUnavailable, method, target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", route, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &statusError{
			code: resp.StatusCode,
			body: strings.TrimSpace(pkg.BytesToString(respBytes)),
		}
		switch resp.StatusCode {
		case http.StatusBadRequest:
			statusErr.cause = coach.ErrInvalidInput
		case http.StatusServiceUnavailable, http.StatusTooManyRequests:
			statusErr.cause = coach.ErrStoreUnavailable
		}
		return statusErr
	}

	if err := json.Unmarshal(respBytes, respBody); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", route, err)
	}
	return nil
}
