package coach

import (
	"slices"
	"strings"
)

const maxNutritionNotes = 4

func nutritionNotes(intensity float64, dietaryRestrictions []string, fitnessGoals string) []string {
	notes := make([]string, 0, 8)

	if intensity > 0.7 {
		notes = append(notes,
			"High protein intake for recovery",
			"Complex carbohydrates for sustained energy",
		)
	} else {
		notes = append(notes,
			"Balanced macronutrients",
			"Focus on whole foods",
		)
	}

	restrictions := make([]string, 0, len(dietaryRestrictions))
	for _, r := range dietaryRestrictions {
		restrictions = append(restrictions, strings.ToLower(strings.TrimSpace(r)))
	}
	if slices.Contains(restrictions, "vegetarian") || slices.Contains(restrictions, "vegan") {
		notes = append(notes, "Plant-based protein sources (beans, tofu, quinoa)")
	}
	if slices.Contains(restrictions, "gluten-free") {
		notes = append(notes, "Gluten-free grains (rice, quinoa, buckwheat)")
	}

	goals := strings.ToLower(fitnessGoals)
	if strings.Contains(goals, "weight loss") {
		notes = append(notes,
			"Calorie deficit with nutrient density",
			"High fiber foods for satiety",
		)
	} else if strings.Contains(goals, "muscle gain") {
		notes = append(notes,
			"Calorie surplus with quality proteins",
			"Progressive caloric increase",
		)
	}

	notes = append(notes,
		"Stay hydrated throughout the day",
		"Pre-workout nutrition 1-2 hours before exercise",
	)

	return notes[:maxNutritionNotes]
}
