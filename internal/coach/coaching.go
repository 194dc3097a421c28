package coach

import (
	"fmt"
	"math"
	"strings"
)

type CoachReply struct {
	Response    string           `json:"response"`
	Prediction  PredictionResult `json:"prediction"`
	Suggestions []string         `json:"suggestions"`
}

func coachResponse(message string, prediction PredictionResult, signals SessionSignals) string {
	msg := strings.ToLower(message)

	if prediction.RiskLevel == RiskHigh {
		return "I notice you're at higher risk of missing today's workout. " +
			"Let's focus on recovery and building sustainable habits. How are you feeling energy-wise?"
	}

	if strings.Contains(msg, "motivation") {
		return fmt.Sprintf(
			"Great that you're seeking motivation! Based on your %s completion likelihood (%d%% confidence), "+
				"you're on a good path. Remember: consistency beats perfection every time.",
			prediction.Prediction, int(math.Round(prediction.Confidence*100)),
		)
	}

	if strings.Contains(msg, "tired") || strings.Contains(msg, "energy") {
		if signals.EnergyLevel < 5 {
			return "I understand you're feeling low on energy. That's completely normal! " +
				"Let's plan a gentler workout today and focus on recovery. Rest is just as important as activity."
		}
		return "Energy levels fluctuate - that's normal! Your current energy suggests you can handle " +
			"a moderate workout. Would you like me to suggest some energizing exercises?"
	}

	return fmt.Sprintf(
		"Thanks for sharing that! Based on your current data, you're %s to complete today's workout. "+
			"I'm here to support your fitness journey every step of the way.",
		prediction.Prediction,
	)
}

func suggestions(risk RiskLevel) []string {
	switch risk {
	case RiskHigh:
		return []string{
			"Take a 10-minute walk",
			"Do gentle stretching",
			"Focus on nutrition and hydration",
		}
	case RiskLow:
		return []string{
			"30-45 minute cardio session",
			"Strength training workout",
			"Try a new exercise challenge",
		}
	default:
		return []string{
			"20-30 minute moderate workout",
			"Yoga or mobility session",
			"Light resistance training",
		}
	}
}
