package coach

import (
	"math"
	"slices"
	"time"
)

type ProgressReport struct {
	WeeklyCompletionRate  float64    `json:"weekly_completion_rate"`
	MonthlyCompletionRate float64    `json:"monthly_completion_rate"`
	CurrentStreak         int        `json:"current_streak"`
	LongestStreak         int        `json:"longest_streak"`
	TotalWorkouts         int        `json:"total_workouts"`
	TotalCheckIns         int        `json:"total_checkins"`
	AverageEnergy         float64    `json:"average_energy"`
	CompletionRate        float64    `json:"completion_rate"`
	LastCheckIn           *time.Time `json:"last_checkin"`
	TotalDaysTracked      int        `json:"total_days_tracked"`
	ConsistencyScore      float64    `json:"consistency_score"`
}

// CalculateProgress derives the progress report from the stored history as of now.
func CalculateProgress(doc *Document, now time.Time) ProgressReport {
	if doc == nil {
		doc = NewDocument()
	}

	weeklyRate, _ := WorkoutCompletionRate(Window(doc.WorkoutHistory, now, progressWeekDays))
	monthlyRate, _ := WorkoutCompletionRate(Window(doc.WorkoutHistory, now, progressMonthDays))
	avgEnergy, _ := AverageEnergy(Window(doc.DailyFeedback, now, predictionFeedbackDays))

	currentStreak := CurrentStreak(doc.WorkoutHistory, now)

	return ProgressReport{
		WeeklyCompletionRate:  round2(weeklyRate),
		MonthlyCompletionRate: round2(monthlyRate),
		CurrentStreak:         currentStreak,
		LongestStreak:         max(doc.Stats.LongestStreak, currentStreak),
		TotalWorkouts:         doc.Stats.TotalWorkouts,
		TotalCheckIns:         doc.Stats.TotalCheckIns,
		AverageEnergy:         round2(avgEnergy),
		CompletionRate:        round2(doc.Stats.CompletionRate),
		LastCheckIn:           doc.Stats.LastCheckIn,
		TotalDaysTracked:      len(doc.DailyFeedback),
		ConsistencyScore:      round2(monthlyRate * avgEnergy / 10),
	}
}

// CurrentStreak is the number of consecutive calendar days with a completed workout,
// counted backwards from the most recent one. The run only counts while its most recent
// day is today or yesterday. Calendar days are taken in the location of now.
func CurrentStreak(history []WorkoutHistoryEntry, now time.Time) int {
	completed := make([]time.Time, 0, len(history))
	for _, e := range history {
		if e.Completed && !e.Date.IsZero() {
			completed = append(completed, e.Date)
		}
	}
	if len(completed) == 0 {
		return 0
	}

	slices.SortStableFunc(completed, func(a, b time.Time) int {
		return b.Compare(a)
	})

	loc := now.Location()
	today := calendarDay(now, loc)
	if daysBetween(today, calendarDay(completed[0], loc)) > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(completed); i++ {
		prev := calendarDay(completed[i-1], loc)
		curr := calendarDay(completed[i], loc)
		// a second completion on the same day ends the run too
		if daysBetween(prev, curr) != 1 {
			break
		}
		streak++
	}
	return streak
}

func calendarDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// daysBetween rounds, so that DST shifts (23h or 25h days) still count as one day.
func daysBetween(later, earlier time.Time) int {
	return int(math.Round(later.Sub(earlier).Hours() / 24))
}
