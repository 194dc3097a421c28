package coach

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=coach_test

const planReviewPeriod = 7 * 24 * time.Hour

// DocumentStore keeps one document per user. Put replaces the whole document atomically.
// Get returns ErrDocumentNotFound for users without a document.
type DocumentStore interface {
	Get(ctx context.Context, userID string) (*Document, error)
	Put(ctx context.Context, userID string, doc *Document) error
}

type Service struct {
	store  DocumentStore
	locker Locker

	// ability to inject the clock and id generator (for unit and dev testing)
	NowFunc func() time.Time
	IDFunc  func() string
}

func NewService(store DocumentStore, locker Locker) *Service {
	if locker == nil {
		locker = NewKeyedMutex()
	}
	return &Service{
		store:   store,
		locker:  locker,
		NowFunc: time.Now,
		IDFunc:  uuid.NewString,
	}
}

type CheckInResult struct {
	Feedback     CheckInRecord `json:"feedback"`
	UpdatedStats UserStats     `json:"updated_stats"`
}

type PlanResponse struct {
	Plan           WorkoutPlan      `json:"plan"`
	Prediction     PredictionResult `json:"prediction"`
	NextReviewDate time.Time        `json:"nextReviewDate"`
}

// WorkoutLog is a manually logged workout. Date defaults to now.
type WorkoutLog struct {
	Date        *time.Time `json:"date,omitempty"`
	Completed   bool       `json:"completed"`
	EnergyLevel int        `json:"energy_level"`
	Notes       string     `json:"notes"`
}

func (s *Service) Predict(ctx context.Context, userID string, signals SessionSignals) (_ PredictionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.coach.predict")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateUserID(userID); err != nil {
		return PredictionResult{}, err
	}
	if err := signals.Validate(); err != nil {
		return PredictionResult{}, err
	}

	doc, err := s.load(ctx, userID)
	if err != nil {
		return PredictionResult{}, err
	}

	prediction, err := Predict(signals, doc, s.NowFunc())
	if err != nil {
		return PredictionResult{}, err
	}
	span.SetAttributes(
		attribute.String("risk", prediction.RiskLevel.String()),
		attribute.Float64("confidence", prediction.Confidence),
	)
	return prediction, nil
}

// GeneratePlan adapts today's plan and stores it as the user's current plan.
// When prediction is nil, it is computed from the stored history first.
func (s *Service) GeneratePlan(
	ctx context.Context,
	userID string,
	signals SessionSignals,
	prediction *PredictionResult,
) (_ PlanResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.coach.generateplan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateUserID(userID); err != nil {
		return PlanResponse{}, err
	}
	if err := signals.Validate(); err != nil {
		return PlanResponse{}, err
	}
	if prediction != nil {
		if err := validatePrediction(*prediction); err != nil {
			return PlanResponse{}, err
		}
	}

	var resp PlanResponse
	err = s.update(ctx, userID, func(doc *Document, now time.Time) error {
		var pred PredictionResult
		if prediction != nil {
			pred = *prediction
		} else {
			var err error
			if pred, err = Predict(signals, doc, now); err != nil {
				return err
			}
		}

		plan := AdaptPlan(signals, doc.Profile, pred)
		doc.CurrentPlan = &plan
		doc.PlanGeneratedAt = &now

		resp = PlanResponse{
			Plan:           plan,
			Prediction:     pred,
			NextReviewDate: now.Add(planReviewPeriod),
		}
		return nil
	})
	if err != nil {
		return PlanResponse{}, err
	}
	return resp, nil
}

// RecordCheckIn stores the daily check-in, mirrors it into the workout history and updates the stats.
func (s *Service) RecordCheckIn(
	ctx context.Context,
	userID string,
	workoutCompleted bool,
	energyLevel EnergyLevel,
	notes string,
) (_ CheckInResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.coach.checkin")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Bool("completed", workoutCompleted))

	if err := validateUserID(userID); err != nil {
		return CheckInResult{}, err
	}
	if !energyLevel.IsValid() {
		return CheckInResult{}, fmt.Errorf("%w: unknown energy level [%s]", ErrInvalidInput, energyLevel)
	}

	var result CheckInResult
	err = s.update(ctx, userID, func(doc *Document, now time.Time) error {
		record := CheckInRecord{
			ID:               s.IDFunc(),
			Date:             now,
			WorkoutCompleted: workoutCompleted,
			EnergyLevel:      energyLevel,
			EnergyNumeric:    energyLevel.Numeric(),
			Notes:            notes,
		}
		doc.AppendCheckIn(record, now)
		doc.AppendWorkout(WorkoutHistoryEntry{
			Date:        now,
			Completed:   workoutCompleted,
			EnergyLevel: record.EnergyNumeric,
			Notes:       notes,
			Source:      SourceDailyCheckIn,
		})

		doc.Stats.ApplyCheckIn(workoutCompleted, now)
		doc.Stats.RefreshCompletionRate(doc.WorkoutHistory)
		reconcileStreak(userID, doc, now)

		result = CheckInResult{
			Feedback:     record,
			UpdatedStats: doc.Stats,
		}
		return nil
	})
	if err != nil {
		return CheckInResult{}, err
	}
	return result, nil
}

func (s *Service) LogWorkout(ctx context.Context, userID string, workout WorkoutLog) (_ UserStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.coach.logworkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateUserID(userID); err != nil {
		return UserStats{}, err
	}
	if workout.EnergyLevel < 0 || workout.EnergyLevel > 10 {
		return UserStats{}, fmt.Errorf("%w: energy level %d not in [0, 10]", ErrInvalidInput, workout.EnergyLevel)
	}
	if workout.Date != nil && workout.Date.IsZero() {
		return UserStats{}, fmt.Errorf("%w: empty workout date", ErrInvalidInput)
	}

	var stats UserStats
	err = s.update(ctx, userID, func(doc *Document, now time.Time) error {
		date := now
		if workout.Date != nil {
			date = *workout.Date
		}
		doc.AppendWorkout(WorkoutHistoryEntry{
			Date:        date,
			Completed:   workout.Completed,
			EnergyLevel: workout.EnergyLevel,
			Notes:       workout.Notes,
			Source:      SourceManualLog,
			LoggedAt:    &now,
		})

		doc.Stats.ApplyWorkoutLog(workout.Completed)
		doc.Stats.RefreshCompletionRate(doc.WorkoutHistory)
		reconcileStreak(userID, doc, now)

		stats = doc.Stats
		return nil
	})
	if err != nil {
		return UserStats{}, err
	}
	return stats, nil
}

func (s *Service) GetProgress(ctx context.Context, userID string) (_ ProgressReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.coach.progress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateUserID(userID); err != nil {
		return ProgressReport{}, err
	}
	doc, err := s.load(ctx, userID)
	if err != nil {
		return ProgressReport{}, err
	}
	return CalculateProgress(doc, s.NowFunc()), nil
}

func (s *Service) GetStats(ctx context.Context, userID string) (_ UserStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.coach.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateUserID(userID); err != nil {
		return UserStats{}, err
	}
	doc, err := s.load(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}
	return doc.Stats, nil
}

func (s *Service) SaveProfile(ctx context.Context, userID string, profile UserProfile) (_ UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.coach.saveprofile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateUserID(userID); err != nil {
		return UserProfile{}, err
	}
	if err := profile.Validate(); err != nil {
		return UserProfile{}, err
	}

	var saved UserProfile
	err = s.update(ctx, userID, func(doc *Document, now time.Time) error {
		profile.CreatedAt = now
		if doc.Profile != nil && !doc.Profile.CreatedAt.IsZero() {
			profile.CreatedAt = doc.Profile.CreatedAt
		}
		profile.UpdatedAt = now
		doc.Profile = &profile
		saved = profile
		return nil
	})
	if err != nil {
		return UserProfile{}, err
	}
	return saved, nil
}

// GetProfile returns ok=false when the user never saved a profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (_ UserProfile, ok bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.coach.getprofile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateUserID(userID); err != nil {
		return UserProfile{}, false, err
	}
	doc, err := s.load(ctx, userID)
	if err != nil {
		return UserProfile{}, false, err
	}
	if doc.Profile == nil {
		return UserProfile{}, false, nil
	}
	return *doc.Profile, true, nil
}

// CoachResponse answers a user message in the light of the current prediction,
// and keeps the exchange in the user's interaction log.
func (s *Service) CoachResponse(
	ctx context.Context,
	userID string,
	message string,
	signals SessionSignals,
) (_ CoachReply, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.coach.message")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateUserID(userID); err != nil {
		return CoachReply{}, err
	}
	if err := signals.Validate(); err != nil {
		return CoachReply{}, err
	}

	var reply CoachReply
	err = s.update(ctx, userID, func(doc *Document, now time.Time) error {
		prediction, err := Predict(signals, doc, now)
		if err != nil {
			return err
		}

		reply = CoachReply{
			Response:    coachResponse(message, prediction, signals),
			Prediction:  prediction,
			Suggestions: suggestions(prediction.RiskLevel),
		}
		doc.AppendInteraction(Interaction{
			ID:         s.IDFunc(),
			Message:    message,
			Response:   reply.Response,
			Prediction: prediction,
			Timestamp:  now,
		})
		return nil
	})
	if err != nil {
		return CoachReply{}, err
	}
	return reply, nil
}

// update runs a read-modify-write cycle on the user document while holding the user lock.
// The mutation works on a copy, so nothing is written when it fails.
func (s *Service) update(ctx context.Context, userID string, mutate func(doc *Document, now time.Time) error) error {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return fmt.Errorf("lock user [%s]: %w", userID, err)
	}
	defer unlock()

	doc, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	updated := doc.Clone()
	if err := mutate(updated, s.NowFunc()); err != nil {
		return err
	}

	if err := s.store.Put(ctx, userID, updated); err != nil {
		return fmt.Errorf("%w: put document: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, userID string) (*Document, error) {
	doc, err := s.store.Get(ctx, userID)
	if errors.Is(err, ErrDocumentNotFound) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get document: %w", ErrStoreUnavailable, err)
	}
	if doc == nil {
		return NewDocument(), nil
	}
	return doc, nil
}

func reconcileStreak(userID string, doc *Document, now time.Time) {
	recomputed := CurrentStreak(doc.WorkoutHistory, now)
	if recomputed != doc.Stats.CurrentStreak {
		log.Debugf("user [%s] streak counter %d differs from history streak %d, using history",
			userID, doc.Stats.CurrentStreak, recomputed)
	}
	doc.Stats.Reconcile(recomputed)
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}
	return nil
}

func validatePrediction(p PredictionResult) error {
	switch p.RiskLevel {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		return fmt.Errorf("%w: unknown risk level [%s]", ErrInvalidInput, p.RiskLevel)
	}
	if math.IsNaN(p.Confidence) || p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v not in [0, 1]", ErrInvalidInput, p.Confidence)
	}
	return nil
}

// Validate checks the profile before it is stored.
func (p UserProfile) Validate() error {
	switch p.ExperienceLevel {
	case "", ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
	default:
		return fmt.Errorf("%w: unknown experience level [%s]", ErrInvalidInput, p.ExperienceLevel)
	}
	if math.IsNaN(p.WeeklyAvailabilityHours) || p.WeeklyAvailabilityHours < 0 || p.WeeklyAvailabilityHours > 168 {
		return fmt.Errorf("%w: weekly availability %v hours out of range", ErrInvalidInput, p.WeeklyAvailabilityHours)
	}
	return nil
}
