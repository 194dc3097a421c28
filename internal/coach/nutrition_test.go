package coach

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNutritionNotes(t *testing.T) {
	cases := []struct {
		name         string
		intensity    float64
		restrictions []string
		goals        string
		expected     []string
	}{
		{
			name:         "restrictions and weight loss",
			intensity:    0.8,
			restrictions: []string{"VEGAN", " gluten-free "},
			goals:        "weight loss",
			expected: []string{
				"High protein intake for recovery",
				"Complex carbohydrates for sustained energy",
				"Plant-based protein sources (beans, tofu, quinoa)",
				"Gluten-free grains (rice, quinoa, buckwheat)",
			},
		},
		{
			name:      "low intensity muscle gain",
			intensity: 0.5,
			goals:     "Muscle Gain and more",
			expected: []string{
				"Balanced macronutrients",
				"Focus on whole foods",
				"Calorie surplus with quality proteins",
				"Progressive caloric increase",
			},
		},
		{
			name:         "vegetarian at the boundary",
			intensity:    0.7,
			restrictions: []string{"vegetarian"},
			expected: []string{
				"Balanced macronutrients",
				"Focus on whole foods",
				"Plant-based protein sources (beans, tofu, quinoa)",
				"Stay hydrated throughout the day",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notes := nutritionNotes(tc.intensity, tc.restrictions, tc.goals)
			assert.Equal(t, tc.expected, notes)
			assert.Len(t, notes, maxNutritionNotes)
		})
	}
}
