package coach

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

const defaultWeeklyAvailabilityHours = 5

// planTemplate is the starting point of a plan for a given experience level.
type planTemplate struct {
	maxDuration float64
	intensity   float64
	exercises   []string
}

var planTemplates = map[ExperienceLevel]planTemplate{
	ExperienceBeginner: {
		maxDuration: 20,
		intensity:   0.5,
		exercises:   []string{"walking", "light stretching", "bodyweight squats", "gentle yoga"},
	},
	ExperienceIntermediate: {
		maxDuration: 45,
		intensity:   0.75,
		exercises:   []string{"cardio", "strength training", "yoga", "pilates"},
	},
	ExperienceAdvanced: {
		maxDuration: 75,
		intensity:   0.9,
		exercises:   []string{"HIIT", "heavy lifting", "sports activities", "cross-training"},
	},
}

// gentleExercises are the only ones kept for users at high risk of skipping.
var gentleExercises = []string{"walking", "light stretching", "gentle yoga", "breathing exercises"}

const (
	maxPlanExercises = 3
	maxPlanDuration  = 90
	minPlanDuration  = 10
	minPlanIntensity = 0.3
)

// AdaptPlan derives today's workout plan from the profile template, the
// completion prediction and the current session signals.
// It never mutates its inputs and always gives the same plan for the same inputs.
func AdaptPlan(signals SessionSignals, profile *UserProfile, prediction PredictionResult) WorkoutPlan {
	if profile == nil {
		profile = &UserProfile{}
	}

	level := profile.ExperienceLevel
	tmpl, ok := planTemplates[level]
	if !ok {
		tmpl = planTemplates[ExperienceIntermediate]
	}

	weeklyHours := profile.WeeklyAvailabilityHours
	if weeklyHours <= 0 {
		weeklyHours = defaultWeeklyAvailabilityHours
	}
	baseDuration := math.Min(tmpl.maxDuration, weeklyHours*60/7)

	duration := baseDuration
	intensity := tmpl.intensity
	exercises := slices.Clone(tmpl.exercises)

	switch {
	case prediction.RiskLevel == RiskHigh:
		intensity = math.Max(minPlanIntensity, tmpl.intensity*0.6)
		duration = math.Max(minPlanDuration, baseDuration*0.5)
		exercises = gentleSubset(exercises)
	case prediction.RiskLevel == RiskLow && signals.EnergyLevel > 7:
		intensity = math.Min(1.0, tmpl.intensity*1.3)
		duration = math.Min(maxPlanDuration, baseDuration*1.2)
	}

	if len(profile.PreferredWorkoutTypes) > 0 {
		exercises = preferExercises(exercises, profile.PreferredWorkoutTypes)
	}

	if signals.WorkoutStreak > 7 {
		intensity *= 1.1
	} else if signals.WorkoutStreak == 0 {
		intensity *= 0.8
	}

	exercises = annotateForGoals(exercises, profile.FitnessGoals)

	if len(exercises) > maxPlanExercises {
		exercises = exercises[:maxPlanExercises]
	}
	intensity = math.Min(1.0, intensity)

	return WorkoutPlan{
		DurationMinutes: int(math.Round(duration)),
		Intensity:       round2(intensity),
		Exercises:       exercises,
		Nutrition:       nutritionNotes(intensity, profile.DietaryRestrictions, profile.FitnessGoals),
		Reasoning:       planReasoning(prediction, signals, profile),
	}
}

// gentleSubset keeps the gentle exercises of the template, or all of them when the
// template has none.
func gentleSubset(exercises []string) []string {
	var gentle []string
	for _, ex := range exercises {
		if slices.Contains(gentleExercises, ex) {
			gentle = append(gentle, ex)
		}
	}
	if len(gentle) == 0 {
		return slices.Clone(gentleExercises)
	}
	return gentle
}

// preferExercises moves exercises matching the preferred types to the front, followed by
// at most 2 of the others. Without any match the list is returned unchanged.
func preferExercises(exercises, preferredTypes []string) []string {
	var matching, others []string
	for _, ex := range exercises {
		if matchesAnyPreference(ex, preferredTypes) {
			matching = append(matching, ex)
		} else {
			others = append(others, ex)
		}
	}
	if len(matching) == 0 {
		return exercises
	}
	if len(others) > 2 {
		others = others[:2]
	}
	return append(matching, others...)
}

func matchesAnyPreference(exercise string, preferredTypes []string) bool {
	ex := strings.ToLower(exercise)
	for _, pref := range preferredTypes {
		p := strings.ToLower(strings.TrimSpace(pref))
		if p == "" {
			continue
		}
		if strings.Contains(ex, p) || strings.Contains(p, ex) {
			return true
		}
	}
	return false
}

func annotateForGoals(exercises []string, fitnessGoals string) []string {
	goals := strings.ToLower(fitnessGoals)
	annotated := make([]string, 0, len(exercises))
	switch {
	case strings.Contains(goals, "weight loss"):
		for _, ex := range exercises {
			lower := strings.ToLower(ex)
			if strings.Contains(lower, "cardio") || strings.Contains(lower, "hiit") {
				annotated = append(annotated, ex)
				continue
			}
			annotated = append(annotated, ex+" (with cardio focus)")
		}
	case strings.Contains(goals, "muscle gain"), strings.Contains(goals, "strength"):
		for _, ex := range exercises {
			lower := strings.ToLower(ex)
			if strings.Contains(lower, "strength") || strings.Contains(lower, "lifting") {
				annotated = append(annotated, ex)
				continue
			}
			annotated = append(annotated, ex+" (with resistance)")
		}
	default:
		annotated = append(annotated, exercises...)
	}
	return annotated
}

func planReasoning(prediction PredictionResult, signals SessionSignals, profile *UserProfile) []string {
	reasons := make([]string, 0, 6)

	if prediction.RiskLevel == RiskHigh {
		reasons = append(reasons,
			"Reduced intensity due to completion risk assessment",
			"Shorter duration to prevent burnout",
		)
	} else if prediction.Confidence > 0.7 {
		reasons = append(reasons, "Increased intensity based on strong completion likelihood")
	}

	if signals.EnergyLevel > 8 {
		reasons = append(reasons, "High energy level supports more challenging workout")
	} else if signals.EnergyLevel < 4 {
		reasons = append(reasons, "Low energy level requires gentler approach")
	}

	if signals.WorkoutStreak > 5 {
		reasons = append(reasons, "Consistent streak indicates readiness for progression")
	}

	if profile.ExperienceLevel != "" {
		reasons = append(reasons, fmt.Sprintf("Adapted for %s fitness level", profile.ExperienceLevel))
	}
	if profile.FitnessGoals != "" {
		reasons = append(reasons, fmt.Sprintf("Aligned with %s goals", strings.ToLower(profile.FitnessGoals)))
	}
	if len(profile.PreferredWorkoutTypes) > 0 {
		preferred := profile.PreferredWorkoutTypes
		if len(preferred) > 2 {
			preferred = preferred[:2]
		}
		reasons = append(reasons, "Incorporates preferred activities: "+strings.Join(preferred, ", "))
	}

	return reasons
}
