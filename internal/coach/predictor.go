package coach

import (
	"fmt"
	"math"
	"time"
)

const (
	PredictionHighlyLikely = "highly likely to complete"
	PredictionLikely       = "likely to complete"
	PredictionModerate     = "moderate chance"
	PredictionAtRisk       = "at risk of missing"

	defaultHistoricalRate = 0.5
	defaultRecentEnergy   = 5.0

	maxStreakSignal = 30
	maxMissedSignal = 7
)

// Weights of the normalized signals in the completion score. Missed is negative.
type Weights struct {
	Energy           float64 `json:"energy"`
	Streak           float64 `json:"streak"`
	Missed           float64 `json:"missed"`
	Progress         float64 `json:"progress"`
	Historical       float64 `json:"historical"`
	RecentEnergy     float64 `json:"recent_energy"`
	RecentCompletion float64 `json:"recent_completion"`
}

func baseWeights() Weights {
	return Weights{
		Energy:           0.15,
		Streak:           0.15,
		Missed:           -0.15,
		Progress:         0.15,
		Historical:       0.15,
		RecentEnergy:     0.15,
		RecentCompletion: 0.10,
	}
}

// weightsFor leans on history and momentary energy when there was no recent check-in.
func weightsFor(hasRecentFeedback bool) Weights {
	w := baseWeights()
	if !hasRecentFeedback {
		w.Historical += 0.10
		w.Energy += 0.05
	}
	return w
}

// Validate checks the signals are within their documented ranges.
func (s SessionSignals) Validate() error {
	switch {
	case math.IsNaN(s.EnergyLevel) || s.EnergyLevel < 0 || s.EnergyLevel > 10:
		return fmt.Errorf("%w: energy level %v not in [0, 10]", ErrInvalidInput, s.EnergyLevel)
	case s.WorkoutStreak < 0:
		return fmt.Errorf("%w: negative workout streak %d", ErrInvalidInput, s.WorkoutStreak)
	case s.MissedDays < 0:
		return fmt.Errorf("%w: negative missed days %d", ErrInvalidInput, s.MissedDays)
	case math.IsNaN(s.GoalProgress) || s.GoalProgress < 0 || s.GoalProgress > 1:
		return fmt.Errorf("%w: goal progress %v not in [0, 1]", ErrInvalidInput, s.GoalProgress)
	}
	return nil
}

// Predict scores how likely the user is to complete today's workout, combining the
// session signals with the recent history stored in the document.
func Predict(signals SessionSignals, doc *Document, now time.Time) (PredictionResult, error) {
	if err := signals.Validate(); err != nil {
		return PredictionResult{}, err
	}
	if doc == nil {
		doc = NewDocument()
	}

	recentWorkouts := Window(doc.WorkoutHistory, now, predictionHistoryDays)
	historicalRate, ok := WorkoutCompletionRate(recentWorkouts)
	if !ok {
		historicalRate = defaultHistoricalRate
	}

	recentFeedback := Window(doc.DailyFeedback, now, predictionFeedbackDays)
	hasRecentFeedback := len(recentFeedback) > 0
	avgRecentEnergy := defaultRecentEnergy
	recentCompletionRate := historicalRate
	if hasRecentFeedback {
		avgRecentEnergy, _ = AverageEnergy(recentFeedback)
		recentCompletionRate, _ = CheckInCompletionRate(recentFeedback)
	}

	normEnergy := signals.EnergyLevel / 10
	normStreak := math.Min(float64(signals.WorkoutStreak), maxStreakSignal) / maxStreakSignal
	normMissed := math.Min(float64(signals.MissedDays), maxMissedSignal) / maxMissedSignal
	normProgress := signals.GoalProgress
	normHistorical := historicalRate
	normRecentEnergy := avgRecentEnergy / 10
	normRecentCompletion := recentCompletionRate

	w := weightsFor(hasRecentFeedback)
	factors := Factors{
		EnergyImpact:           normEnergy * w.Energy,
		StreakImpact:           normStreak * w.Streak,
		MissedImpact:           normMissed * w.Missed,
		ProgressImpact:         normProgress * w.Progress,
		HistoricalImpact:       normHistorical * w.Historical,
		RecentEnergyImpact:     normRecentEnergy * w.RecentEnergy,
		RecentCompletionImpact: normRecentCompletion * w.RecentCompletion,
		Weights:                w,
		DataQuality: DataQuality{
			HasRecentFeedback:    hasRecentFeedback,
			FeedbackCount:        len(recentFeedback),
			HistoricalDataPoints: len(recentWorkouts),
		},
	}

	score := factors.EnergyImpact +
		factors.StreakImpact +
		factors.MissedImpact +
		factors.ProgressImpact +
		factors.HistoricalImpact +
		factors.RecentEnergyImpact +
		factors.RecentCompletionImpact

	// thin evidence flattens the logistic curve towards 0.5
	dataQuality := 0.8
	if hasRecentFeedback {
		dataQuality = 1.0
	}
	confidence := round2(logistic(score * 2 * dataQuality))

	prediction, risk := Classify(confidence)
	return PredictionResult{
		Prediction: prediction,
		Confidence: confidence,
		RiskLevel:  risk,
		Factors:    factors,
	}, nil
}

// Classify maps a confidence onto its prediction label and risk level.
// Band boundaries belong to the lower band.
func Classify(confidence float64) (string, RiskLevel) {
	switch {
	case confidence > 0.75:
		return PredictionHighlyLikely, RiskLow
	case confidence > 0.55:
		return PredictionLikely, RiskLow
	case confidence > 0.35:
		return PredictionModerate, RiskMedium
	default:
		return PredictionAtRisk, RiskHigh
	}
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
