package coach

import (
	"math"
	"time"
)

const (
	predictionHistoryDays  = 30
	predictionFeedbackDays = 14
	progressWeekDays       = 7
	progressMonthDays      = 30
	feedbackRetentionDays  = 90

	maxWorkoutHistory  = 100
	maxInteractions    = 50
	statsRecentEntries = 30
)

// Event is anything that happened at a single instant.
type Event interface {
	OccurredAt() time.Time
}

// Window returns the events that happened after now minus the given number of days.
// The cutoff instant itself is not part of the window, records without a valid
// timestamp never are.
func Window[T Event](events []T, now time.Time, days int) []T {
	cutoff := now.AddDate(0, 0, -days)
	windowed := make([]T, 0, len(events))
	for _, e := range events {
		at := e.OccurredAt()
		if at.IsZero() {
			continue
		}
		if at.After(cutoff) {
			windowed = append(windowed, e)
		}
	}
	return windowed
}

// WorkoutCompletionRate returns the completed fraction of the entries,
// ok is false when there are no entries at all.
func WorkoutCompletionRate(entries []WorkoutHistoryEntry) (rate float64, ok bool) {
	if len(entries) == 0 {
		return 0, false
	}
	completed := 0
	for _, e := range entries {
		if e.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(entries)), true
}

// CheckInCompletionRate is WorkoutCompletionRate for check-ins.
func CheckInCompletionRate(records []CheckInRecord) (rate float64, ok bool) {
	if len(records) == 0 {
		return 0, false
	}
	completed := 0
	for _, r := range records {
		if r.WorkoutCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(records)), true
}

// AverageEnergy returns the mean numeric energy of the check-ins.
func AverageEnergy(records []CheckInRecord) (avg float64, ok bool) {
	if len(records) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range records {
		sum += r.EnergyNumeric
	}
	return float64(sum) / float64(len(records)), true
}

// round2 leaves only 2 decimals
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
