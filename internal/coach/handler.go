package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=coach_test

type coachService interface {
	Predict(ctx context.Context, userID string, signals SessionSignals) (PredictionResult, error)
	GeneratePlan(ctx context.Context, userID string, signals SessionSignals, prediction *PredictionResult) (PlanResponse, error)
	RecordCheckIn(ctx context.Context, userID string, workoutCompleted bool, energyLevel EnergyLevel, notes string) (CheckInResult, error)
	LogWorkout(ctx context.Context, userID string, workout WorkoutLog) (UserStats, error)
	GetProgress(ctx context.Context, userID string) (ProgressReport, error)
	GetStats(ctx context.Context, userID string) (UserStats, error)
	SaveProfile(ctx context.Context, userID string, profile UserProfile) (UserProfile, error)
	GetProfile(ctx context.Context, userID string) (UserProfile, bool, error)
	CoachResponse(ctx context.Context, userID string, message string, signals SessionSignals) (CoachReply, error)
}

// SignalsRequest carries the session signals on the wire. All of them are required,
// the pointers tell an absent signal from a zero one.
type SignalsRequest struct {
	EnergyLevel   *float64 `json:"energy_level"`
	WorkoutStreak *int     `json:"workout_streak"`
	MissedDays    *int     `json:"missed_days"`
	GoalProgress  *float64 `json:"goal_progress"`
}

func NewSignalsRequest(signals SessionSignals) SignalsRequest {
	return SignalsRequest{
		EnergyLevel:   &signals.EnergyLevel,
		WorkoutStreak: &signals.WorkoutStreak,
		MissedDays:    &signals.MissedDays,
		GoalProgress:  &signals.GoalProgress,
	}
}

func (r SignalsRequest) Signals() (SessionSignals, error) {
	var missing []string
	if r.EnergyLevel == nil {
		missing = append(missing, "energy_level")
	}
	if r.WorkoutStreak == nil {
		missing = append(missing, "workout_streak")
	}
	if r.MissedDays == nil {
		missing = append(missing, "missed_days")
	}
	if r.GoalProgress == nil {
		missing = append(missing, "goal_progress")
	}
	if len(missing) > 0 {
		return SessionSignals{}, fmt.Errorf("%w: missing session signals [%s]", ErrInvalidInput, strings.Join(missing, ", "))
	}

	return SessionSignals{
		EnergyLevel:   *r.EnergyLevel,
		WorkoutStreak: *r.WorkoutStreak,
		MissedDays:    *r.MissedDays,
		GoalProgress:  *r.GoalProgress,
	}, nil
}

type PlanRequest struct {
	SignalsRequest
	Prediction *PredictionResult `json:"prediction,omitempty"`
}

type CheckInRequest struct {
	WorkoutCompleted *bool  `json:"workout_completed"`
	EnergyLevel      string `json:"energy_level"`
	Notes            string `json:"notes"`
}

type MessageRequest struct {
	SignalsRequest
	Message string `json:"message"`
}

type Handler struct {
	service        coachService
	metricsManager *metrics.Manager
}

func NewHandler(service coachService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the coach routes. checkInMiddleware wraps the check-in route only,
// it is used for rate limiting.
func (handler *Handler) SetupRoutes(router *mux.Router, checkInMiddleware ...mux.MiddlewareFunc) {
	r := router.PathPrefix("/coach/{userId}").Subrouter()

	r.HandleFunc("/predict", handler.HandlePredict).Methods("POST", "OPTIONS").Name("predict")
	r.HandleFunc("/plan", handler.HandlePlan).Methods("POST", "OPTIONS").Name("plan")
	r.HandleFunc("/workout", handler.HandleLogWorkout).Methods("POST", "OPTIONS").Name("workout")
	r.HandleFunc("/message", handler.HandleMessage).Methods("POST", "OPTIONS").Name("message")
	r.HandleFunc("/progress", handler.HandleProgress).Methods("GET", "OPTIONS").Name("progress")
	r.HandleFunc("/stats", handler.HandleStats).Methods("GET", "OPTIONS").Name("stats")
	r.HandleFunc("/profile", handler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile", handler.HandleSaveProfile).Methods("PUT", "OPTIONS").Name("save-profile")

	var checkIn http.Handler = http.HandlerFunc(handler.HandleCheckIn)
	for i := len(checkInMiddleware) - 1; i >= 0; i-- {
		checkIn = checkInMiddleware[i](checkIn)
	}
	r.Handle("/checkin", checkIn).Methods("POST", "OPTIONS").Name("checkin")
}

func (handler *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.predict")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	var req SignalsRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	signals, err := req.Signals()
	if err != nil {
		writeServiceError(w, "predict", userID, err)
		return
	}

	prediction, err := handler.service.Predict(ctx, userID, signals)
	if err != nil {
		writeServiceError(w, "predict", userID, err)
		return
	}
	handler.observePrediction(prediction)

	pkg.WriteJSONResponse(w, prediction, http.StatusOK)
}

func (handler *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.plan")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	var req PlanRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	signals, err := req.Signals()
	if err != nil {
		writeServiceError(w, "generate plan", userID, err)
		return
	}

	resp, err := handler.service.GeneratePlan(ctx, userID, signals, req.Prediction)
	if err != nil {
		writeServiceError(w, "generate plan", userID, err)
		return
	}
	if handler.metricsManager != nil {
		handler.metricsManager.CounterPlans.Inc()
	}
	if req.Prediction == nil {
		handler.observePrediction(resp.Prediction)
	}

	pkg.WriteJSONResponse(w, resp, http.StatusOK)
}

func (handler *Handler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.checkin")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	var req CheckInRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.WorkoutCompleted == nil {
		http.Error(w, "error, workout_completed missing", http.StatusBadRequest)
		return
	}

	energyLevel, err := ParseEnergyLevel(req.EnergyLevel)
	if err != nil {
		http.Error(w, "error, energy level must be one of: low, medium, high", http.StatusBadRequest)
		return
	}

	result, err := handler.service.RecordCheckIn(ctx, userID, *req.WorkoutCompleted, energyLevel, req.Notes)
	if err != nil {
		writeServiceError(w, "record check-in", userID, err)
		return
	}
	if handler.metricsManager != nil {
		handler.metricsManager.CounterCheckIns.WithLabelValues(strconv.FormatBool(*req.WorkoutCompleted)).Inc()
	}

	log.Debugf("user [%s] checked in, completed: %t, streak: %d",
		userID, *req.WorkoutCompleted, result.UpdatedStats.CurrentStreak)
	pkg.WriteJSONResponse(w, result, http.StatusCreated)
}

func (handler *Handler) HandleLogWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.workout")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	var workout WorkoutLog
	if !decodeJSONBody(w, r, &workout) {
		return
	}

	stats, err := handler.service.LogWorkout(ctx, userID, workout)
	if err != nil {
		writeServiceError(w, "log workout", userID, err)
		return
	}
	if handler.metricsManager != nil {
		handler.metricsManager.CounterWorkoutLogs.Inc()
	}

	pkg.WriteJSONResponse(w, stats, http.StatusCreated)
}

func (handler *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.message")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	var req MessageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "error, message empty", http.StatusBadRequest)
		return
	}
	signals, err := req.Signals()
	if err != nil {
		writeServiceError(w, "coach response", userID, err)
		return
	}

	reply, err := handler.service.CoachResponse(ctx, userID, req.Message, signals)
	if err != nil {
		writeServiceError(w, "coach response", userID, err)
		return
	}
	handler.observePrediction(reply.Prediction)

	pkg.WriteJSONResponse(w, reply, http.StatusOK)
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.progress")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	progress, err := handler.service.GetProgress(ctx, userID)
	if err != nil {
		writeServiceError(w, "get progress", userID, err)
		return
	}
	pkg.WriteJSONResponse(w, progress, http.StatusOK)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.stats")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	stats, err := handler.service.GetStats(ctx, userID)
	if err != nil {
		writeServiceError(w, "get stats", userID, err)
		return
	}
	pkg.WriteJSONResponse(w, stats, http.StatusOK)
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.profile.get")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	profile, ok, err := handler.service.GetProfile(ctx, userID)
	if err != nil {
		writeServiceError(w, "get profile", userID, err)
		return
	}
	if !ok {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSONResponse(w, profile, http.StatusOK)
}

func (handler *Handler) HandleSaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.profile.save")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	var profile UserProfile
	if !decodeJSONBody(w, r, &profile) {
		return
	}

	saved, err := handler.service.SaveProfile(ctx, userID, profile)
	if err != nil {
		writeServiceError(w, "save profile", userID, err)
		return
	}
	pkg.WriteJSONResponse(w, saved, http.StatusOK)
}

func (handler *Handler) observePrediction(prediction PredictionResult) {
	if handler.metricsManager == nil {
		return
	}
	handler.metricsManager.CounterPredictions.WithLabelValues(prediction.RiskLevel.String()).Inc()
	handler.metricsManager.HistogramConfidence.Observe(prediction.Confidence)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Tracef("%s %s, unmarshal json body: %s", r.Method, r.URL.Path, err)
		http.Error(w, "error, invalid json body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, op, userID string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		log.Tracef("%s for user [%s]: %s", op, userID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		log.Errorf("%s for user [%s]: %s", op, userID, err)
		http.Error(w, "service temporarily unavailable", http.StatusServiceUnavailable)
	default:
		log.Errorf("%s for user [%s]: %s", op, userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
