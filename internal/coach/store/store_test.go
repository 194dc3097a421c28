package store

import (
	"testing"
	"time"

	"github.com/2beens/fitcoach/internal/coach"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
		// keep-alive conns of the docker client used by the integration tests
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

func testDocument() *coach.Document {
	day := time.Date(2024, time.March, 10, 18, 30, 0, 0, time.UTC)
	lastCheckIn := day
	generatedAt := day.Add(time.Minute)

	doc := coach.NewDocument()
	doc.Profile = &coach.UserProfile{
		ExperienceLevel:         coach.ExperienceIntermediate,
		PreferredWorkoutTypes:   []string{"yoga", "running"},
		FitnessGoals:            "weight loss",
		WeeklyAvailabilityHours: 4,
		DietaryRestrictions:     []string{"vegan"},
		CreatedAt:               day.AddDate(0, 0, -30),
		UpdatedAt:               day,
	}
	for i := 2; i >= 0; i-- {
		date := day.AddDate(0, 0, -i)
		doc.DailyFeedback = append(doc.DailyFeedback, coach.CheckInRecord{
			ID:               gofakeit.UUID(),
			Date:             date,
			WorkoutCompleted: true,
			EnergyLevel:      coach.EnergyHigh,
			EnergyNumeric:    9,
			Notes:            gofakeit.Sentence(5),
		})
		doc.WorkoutHistory = append(doc.WorkoutHistory, coach.WorkoutHistoryEntry{
			Date:        date,
			Completed:   true,
			EnergyLevel: 9,
			Source:      coach.SourceDailyCheckIn,
		})
	}
	doc.Stats = coach.UserStats{
		TotalWorkouts:     3,
		CompletedWorkouts: 3,
		CurrentStreak:     3,
		LongestStreak:     3,
		TotalCheckIns:     3,
		LastCheckIn:       &lastCheckIn,
		CompletionRate:    1,
	}
	doc.CurrentPlan = &coach.WorkoutPlan{
		DurationMinutes: 34,
		Intensity:       0.83,
		Exercises:       []string{"yoga", "running", "cycling"},
		Nutrition:       []string{"Maintain balanced nutrition with adequate protein"},
		Reasoning:       []string{"Plan adapted for intermediate fitness level"},
	}
	doc.PlanGeneratedAt = &generatedAt
	return doc
}
