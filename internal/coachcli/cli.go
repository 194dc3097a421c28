package coachcli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/coach"
)

// Coach is implemented by the local coach.Service and by RemoteClient.
type Coach interface {
	Predict(ctx context.Context, userID string, signals coach.SessionSignals) (coach.PredictionResult, error)
	GeneratePlan(ctx context.Context, userID string, signals coach.SessionSignals, prediction *coach.PredictionResult) (coach.PlanResponse, error)
	RecordCheckIn(ctx context.Context, userID string, workoutCompleted bool, energyLevel coach.EnergyLevel, notes string) (coach.CheckInResult, error)
	LogWorkout(ctx context.Context, userID string, workout coach.WorkoutLog) (coach.UserStats, error)
	GetProgress(ctx context.Context, userID string) (coach.ProgressReport, error)
	GetStats(ctx context.Context, userID string) (coach.UserStats, error)
	SaveProfile(ctx context.Context, userID string, profile coach.UserProfile) (coach.UserProfile, error)
	GetProfile(ctx context.Context, userID string) (coach.UserProfile, bool, error)
	CoachResponse(ctx context.Context, userID string, message string, signals coach.SessionSignals) (coach.CoachReply, error)
}

var (
	_ Coach = (*coach.Service)(nil)
	_ Coach = (*RemoteClient)(nil)
)

// Context is bound to every command's Run.
type Context struct {
	Ctx    context.Context
	Coach  Coach
	UserID string
	Out    io.Writer
}

func (c *Context) print(v any) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CLI is the coachctl command line.
type CLI struct {
	DB     string `help:"SQLite database file used when no server is given." type:"path" default:"./data/fitcoach.db"`
	Server string `help:"Base URL of a running fitcoach service, e.g. http://localhost:9000."`
	User   string `help:"User ID." short:"u" required:""`

	Predict  PredictCmd  `cmd:"" help:"Predict whether today's workout gets done."`
	Plan     PlanCmd     `cmd:"" help:"Generate today's workout plan."`
	Checkin  CheckInCmd  `cmd:"" help:"Record the daily check-in."`
	Workout  WorkoutCmd  `cmd:"" help:"Log a workout."`
	Progress ProgressCmd `cmd:"" help:"Show the progress report."`
	Stats    StatsCmd    `cmd:"" help:"Show the stored stats."`
	Message  MessageCmd  `cmd:"" help:"Talk to the coach."`
	Profile  struct {
		Show ProfileShowCmd `cmd:"" help:"Show the profile."`
		Set  ProfileSetCmd  `cmd:"" help:"Create or replace the profile."`
	} `cmd:"" help:"Manage the user profile."`
}

type SignalFlags struct {
	Energy       float64 `help:"Current energy level, 0-10." default:"5"`
	Streak       int     `help:"Current workout streak in days." default:"0"`
	Missed       int     `help:"Days missed recently." default:"0"`
	GoalProgress float64 `help:"Progress towards the goal, 0-1." default:"0"`
}

func (f SignalFlags) signals() coach.SessionSignals {
	return coach.SessionSignals{
		EnergyLevel:   f.Energy,
		WorkoutStreak: f.Streak,
		MissedDays:    f.Missed,
		GoalProgress:  f.GoalProgress,
	}
}

type PredictCmd struct {
	SignalFlags `embed:""`
}

func (c *PredictCmd) Run(ctx *Context) error {
	prediction, err := ctx.Coach.Predict(ctx.Ctx, ctx.UserID, c.signals())
	if err != nil {
		return err
	}
	return ctx.print(prediction)
}

type PlanCmd struct {
	SignalFlags `embed:""`
}

func (c *PlanCmd) Run(ctx *Context) error {
	resp, err := ctx.Coach.GeneratePlan(ctx.Ctx, ctx.UserID, c.signals(), nil)
	if err != nil {
		return err
	}
	return ctx.print(resp)
}

type CheckInCmd struct {
	Completed bool   `help:"The workout was done." negatable:""`
	Energy    string `help:"Energy level." enum:"low,medium,high" required:""`
	Notes     string `help:"Free text notes."`
}

func (c *CheckInCmd) Run(ctx *Context) error {
	energyLevel, err := coach.ParseEnergyLevel(c.Energy)
	if err != nil {
		return err
	}
	result, err := ctx.Coach.RecordCheckIn(ctx.Ctx, ctx.UserID, c.Completed, energyLevel, c.Notes)
	if err != nil {
		return err
	}
	return ctx.print(result)
}

type WorkoutCmd struct {
	Completed bool   `help:"The workout was done." negatable:"" default:"true"`
	Energy    int    `help:"Energy level during the workout, 0-10." default:"5"`
	Notes     string `help:"Free text notes."`
	Date      string `help:"Day of the workout (YYYY-MM-DD), defaults to now."`
}

func (c *WorkoutCmd) Run(ctx *Context) error {
	workout := coach.WorkoutLog{
		Completed:   c.Completed,
		EnergyLevel: c.Energy,
		Notes:       c.Notes,
	}
	if c.Date != "" {
		date, err := time.ParseInLocation(time.DateOnly, c.Date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date [%s]: %w", c.Date, err)
		}
		// noon keeps the workout on the same calendar day in nearby timezones
		date = date.Add(12 * time.Hour)
		workout.Date = &date
	}

	stats, err := ctx.Coach.LogWorkout(ctx.Ctx, ctx.UserID, workout)
	if err != nil {
		return err
	}
	return ctx.print(stats)
}

type ProgressCmd struct{}

func (c *ProgressCmd) Run(ctx *Context) error {
	progress, err := ctx.Coach.GetProgress(ctx.Ctx, ctx.UserID)
	if err != nil {
		return err
	}
	return ctx.print(progress)
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	stats, err := ctx.Coach.GetStats(ctx.Ctx, ctx.UserID)
	if err != nil {
		return err
	}
	return ctx.print(stats)
}

type MessageCmd struct {
	SignalFlags `embed:""`
	Text        []string `arg:"" help:"The message."`
}

func (c *MessageCmd) Run(ctx *Context) error {
	reply, err := ctx.Coach.CoachResponse(ctx.Ctx, ctx.UserID, strings.Join(c.Text, " "), c.signals())
	if err != nil {
		return err
	}
	return ctx.print(reply)
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *Context) error {
	profile, ok, err := ctx.Coach.GetProfile(ctx.Ctx, ctx.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user [%s] has no profile yet", ctx.UserID)
	}
	return ctx.print(profile)
}

type ProfileSetCmd struct {
	Level     string   `help:"Experience level: beginner, intermediate or advanced."`
	Preferred []string `help:"Preferred workout types." sep:","`
	Goals     string   `help:"Fitness goals, e.g. 'weight loss'."`
	Hours     float64  `help:"Weekly availability in hours."`
	Diet      []string `help:"Dietary restrictions." sep:","`
}

func (c *ProfileSetCmd) Run(ctx *Context) error {
	saved, err := ctx.Coach.SaveProfile(ctx.Ctx, ctx.UserID, coach.UserProfile{
		ExperienceLevel:         coach.ExperienceLevel(strings.ToLower(c.Level)),
		PreferredWorkoutTypes:   c.Preferred,
		FitnessGoals:            c.Goals,
		WeeklyAvailabilityHours: c.Hours,
		DietaryRestrictions:     c.Diet,
	})
	if err != nil {
		return err
	}
	return ctx.print(saved)
}
