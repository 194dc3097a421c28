package coach

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EnergyLevel is the self reported energy of a daily check-in.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

func (el EnergyLevel) String() string {
	return string(el)
}

func (el EnergyLevel) IsValid() bool {
	switch el {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	default:
		return false
	}
}

// Numeric maps the energy level onto the 0-10 scale used by the predictor.
func (el EnergyLevel) Numeric() int {
	switch el {
	case EnergyLow:
		return 3
	case EnergyMedium:
		return 6
	case EnergyHigh:
		return 9
	default:
		return 0
	}
}

// ParseEnergyLevel accepts the level case-insensitively.
func ParseEnergyLevel(s string) (EnergyLevel, error) {
	el := EnergyLevel(strings.ToLower(strings.TrimSpace(s)))
	if !el.IsValid() {
		return "", fmt.Errorf("%w: unknown energy level [%s]", ErrInvalidInput, s)
	}
	return el, nil
}

// RiskLevel can be one of:
//   - low
//   - medium
//   - high
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (rl RiskLevel) String() string {
	return string(rl)
}

// ExperienceLevel selects the base plan template.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// WorkoutSource tells where a workout history entry came from.
type WorkoutSource string

const (
	SourceDailyCheckIn WorkoutSource = "daily_checkin"
	SourceManualLog    WorkoutSource = "manual_log"
)

type CheckInRecord struct {
	ID               string      `json:"id,omitempty"`
	Date             time.Time   `json:"date"`
	WorkoutCompleted bool        `json:"workout_completed"`
	EnergyLevel      EnergyLevel `json:"energy_level"`
	EnergyNumeric    int         `json:"energy_numeric"`
	Notes            string      `json:"notes"`
}

func (c CheckInRecord) OccurredAt() time.Time {
	return c.Date
}

func (c *CheckInRecord) UnmarshalJSON(data []byte) error {
	type alias CheckInRecord
	aux := struct {
		*alias
		Date json.RawMessage `json:"date"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Date = parseStoredTime(aux.Date)
	return nil
}

type WorkoutHistoryEntry struct {
	Date        time.Time     `json:"date"`
	Completed   bool          `json:"completed"`
	EnergyLevel int           `json:"energy_level"`
	Notes       string        `json:"notes"`
	Source      WorkoutSource `json:"source"`
	LoggedAt    *time.Time    `json:"logged_at,omitempty"`
}

func (w WorkoutHistoryEntry) OccurredAt() time.Time {
	return w.Date
}

func (w *WorkoutHistoryEntry) UnmarshalJSON(data []byte) error {
	type alias WorkoutHistoryEntry
	aux := struct {
		*alias
		Date json.RawMessage `json:"date"`
	}{alias: (*alias)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	w.Date = parseStoredTime(aux.Date)
	return nil
}

// parseStoredTime returns the zero instant for missing or malformed values,
// such records are then skipped by all aggregations.
func parseStoredTime(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

type UserStats struct {
	TotalWorkouts     int        `json:"total_workouts"`
	CompletedWorkouts int        `json:"completed_workouts"`
	CurrentStreak     int        `json:"current_streak"`
	LongestStreak     int        `json:"longest_streak"`
	TotalCheckIns     int        `json:"total_checkins"`
	LastCheckIn       *time.Time `json:"last_checkin"`
	CompletionRate    float64    `json:"completion_rate"`
}

type UserProfile struct {
	ExperienceLevel         ExperienceLevel `json:"experience_level,omitempty"`
	PreferredWorkoutTypes   []string        `json:"preferred_workout_types,omitempty"`
	FitnessGoals            string          `json:"fitness_goals,omitempty"`
	WeeklyAvailabilityHours float64         `json:"weekly_availability,omitempty"`
	DietaryRestrictions     []string        `json:"dietary_restrictions,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// SessionSignals are the current-session inputs sent along with every predict/plan request.
type SessionSignals struct {
	EnergyLevel   float64 `json:"energy_level"`
	WorkoutStreak int     `json:"workout_streak"`
	MissedDays    int     `json:"missed_days"`
	GoalProgress  float64 `json:"goal_progress"`
}

type DataQuality struct {
	HasRecentFeedback    bool `json:"has_recent_feedback"`
	FeedbackCount        int  `json:"feedback_count"`
	HistoricalDataPoints int  `json:"historical_data_points"`
}

// Factors is the per signal breakdown of a prediction score.
type Factors struct {
	EnergyImpact           float64     `json:"energy_impact"`
	StreakImpact           float64     `json:"streak_impact"`
	MissedImpact           float64     `json:"missed_impact"`
	ProgressImpact         float64     `json:"progress_impact"`
	HistoricalImpact       float64     `json:"historical_impact"`
	RecentEnergyImpact     float64     `json:"recent_energy_impact"`
	RecentCompletionImpact float64     `json:"recent_completion_impact"`
	Weights                Weights     `json:"weights"`
	DataQuality            DataQuality `json:"data_quality"`
}

type PredictionResult struct {
	Prediction string    `json:"prediction"`
	Confidence float64   `json:"confidence"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Factors    Factors   `json:"factors"`
}

type WorkoutPlan struct {
	DurationMinutes int      `json:"duration"`
	Intensity       float64  `json:"intensity"`
	Exercises       []string `json:"exercises"`
	Nutrition       []string `json:"nutrition"`
	Reasoning       []string `json:"reasoning"`
}

// Interaction is a single coach conversation turn kept for later review.
type Interaction struct {
	ID         string           `json:"id"`
	Message    string           `json:"message"`
	Response   string           `json:"response"`
	Prediction PredictionResult `json:"prediction"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Document is everything stored for a single user.
type Document struct {
	Profile         *UserProfile          `json:"profile,omitempty"`
	DailyFeedback   []CheckInRecord       `json:"daily_feedback"`
	WorkoutHistory  []WorkoutHistoryEntry `json:"workout_history"`
	Stats           UserStats             `json:"stats"`
	CurrentPlan     *WorkoutPlan          `json:"current_plan,omitempty"`
	PlanGeneratedAt *time.Time            `json:"plan_generated_at,omitempty"`
	Interactions    []Interaction         `json:"interactions,omitempty"`
}

// NewDocument returns the document of a user never seen before.
func NewDocument() *Document {
	return &Document{
		DailyFeedback:  []CheckInRecord{},
		WorkoutHistory: []WorkoutHistoryEntry{},
	}
}

// Clone returns a deep copy, so that a failed write never leaves a half updated document around.
func (d *Document) Clone() *Document {
	if d == nil {
		return NewDocument()
	}
	c := *d
	c.DailyFeedback = append([]CheckInRecord{}, d.DailyFeedback...)
	c.WorkoutHistory = append([]WorkoutHistoryEntry{}, d.WorkoutHistory...)
	c.Interactions = append([]Interaction(nil), d.Interactions...)
	if d.Profile != nil {
		p := *d.Profile
		p.PreferredWorkoutTypes = append([]string(nil), d.Profile.PreferredWorkoutTypes...)
		p.DietaryRestrictions = append([]string(nil), d.Profile.DietaryRestrictions...)
		c.Profile = &p
	}
	if d.CurrentPlan != nil {
		plan := *d.CurrentPlan
		c.CurrentPlan = &plan
	}
	return &c
}
