package coach

import (
	"slices"
	"time"
)

// ApplyCheckIn advances the incrementally maintained counters for a daily check-in.
func (s *UserStats) ApplyCheckIn(workoutCompleted bool, at time.Time) {
	s.TotalCheckIns++
	s.LastCheckIn = &at
	if workoutCompleted {
		s.TotalWorkouts++
		s.CompletedWorkouts++
		s.extendStreak()
	} else {
		s.CurrentStreak = 0
	}
}

// ApplyWorkoutLog advances the counters for a manually logged workout.
// Unlike a check-in, a missed workout still counts towards the total.
func (s *UserStats) ApplyWorkoutLog(completed bool) {
	s.TotalWorkouts++
	if completed {
		s.CompletedWorkouts++
		s.extendStreak()
	} else {
		s.CurrentStreak = 0
	}
}

// extendStreak only moves the incremental counter. LongestStreak is raised in Reconcile,
// from the recomputed run.
func (s *UserStats) extendStreak() {
	s.CurrentStreak++
}

// Reconcile replaces the incremental streak counter with the streak recomputed from history,
// which is the authoritative one.
func (s *UserStats) Reconcile(recomputedStreak int) {
	s.CurrentStreak = max(0, recomputedStreak)
	s.LongestStreak = max(s.LongestStreak, s.CurrentStreak)
}

// RefreshCompletionRate sets the completion rate over the most recent history entries.
func (s *UserStats) RefreshCompletionRate(history []WorkoutHistoryEntry) {
	recent := history
	if len(recent) > statsRecentEntries {
		recent = recent[len(recent)-statsRecentEntries:]
	}
	rate, _ := WorkoutCompletionRate(recent)
	s.CompletionRate = rate
}

// AppendCheckIn adds the record and drops everything that fell out of the retention window.
func (d *Document) AppendCheckIn(record CheckInRecord, now time.Time) {
	d.DailyFeedback = append(d.DailyFeedback, record)
	d.DailyFeedback = Window(d.DailyFeedback, now, feedbackRetentionDays)
}

// AppendWorkout inserts the entry in date order, after entries of the same instant,
// and keeps only the most recent ones.
func (d *Document) AppendWorkout(entry WorkoutHistoryEntry) {
	i := len(d.WorkoutHistory)
	for i > 0 && d.WorkoutHistory[i-1].Date.After(entry.Date) {
		i--
	}
	d.WorkoutHistory = slices.Insert(d.WorkoutHistory, i, entry)
	if len(d.WorkoutHistory) > maxWorkoutHistory {
		d.WorkoutHistory = d.WorkoutHistory[len(d.WorkoutHistory)-maxWorkoutHistory:]
	}
}

func (d *Document) AppendInteraction(interaction Interaction) {
	d.Interactions = append(d.Interactions, interaction)
	if len(d.Interactions) > maxInteractions {
		d.Interactions = d.Interactions[len(d.Interactions)-maxInteractions:]
	}
}
