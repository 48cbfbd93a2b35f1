/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the persistence model (camelCase, backup-compatible) from the external
  API contract (snake_case), allowing:
  - Field renaming without breaking clients
  - API-specific derived fields (percentages, effective defaults)
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

ROUNDING:
  Percentages exist only here. Internal math is exact (int counters,
  decimal fractions); DTOs round to whole percents for display.

SEE ALSO:
  - handlers.go: Uses these types
  - tracker/tracker.go: Source of the Stats and HistoryView data
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/quota-engine/achievements"
	"github.com/warp/quota-engine/exercise"
	"github.com/warp/quota-engine/tracker"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ExerciseDTO represents an exercise in API responses. WeeklyGoal and
// QuickSteps are the effective values (defaults already applied).
type ExerciseDTO struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	DailyTarget         int        `json:"daily_target"`
	DecrementStep       int        `json:"decrement_step"`
	Remaining           int        `json:"remaining"`
	LastAppliedDate     string     `json:"last_applied_date"`
	CompletionThreshold float64    `json:"completion_threshold"`
	WeeklyGoal          int        `json:"weekly_goal"`
	QuickSteps          []int      `json:"quick_steps"`
	Badges              []BadgeDTO `json:"badges"`
}

// BadgeDTO pairs a badge identifier with its display name.
type BadgeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateExerciseRequest is the request to create an exercise.
// Zero-valued optional fields take their defaults.
type CreateExerciseRequest struct {
	Name                string  `json:"name"`
	DailyTarget         int     `json:"daily_target"`
	DecrementStep       int     `json:"decrement_step,omitempty"`
	CompletionThreshold float64 `json:"completion_threshold,omitempty"`
	WeeklyGoal          int     `json:"weekly_goal,omitempty"`
	QuickSteps          []int   `json:"quick_steps,omitempty"`
}

// UpdateExerciseRequest is the request to edit an exercise. Absent
// fields are left untouched; remaining is not editable.
type UpdateExerciseRequest struct {
	Name                *string  `json:"name,omitempty"`
	DailyTarget         *int     `json:"daily_target,omitempty"`
	DecrementStep       *int     `json:"decrement_step,omitempty"`
	CompletionThreshold *float64 `json:"completion_threshold,omitempty"`
	WeeklyGoal          *int     `json:"weekly_goal,omitempty"`
	QuickSteps          []int    `json:"quick_steps,omitempty"`
}

// LogRequest is the request body for logging repetitions.
type LogRequest struct {
	Amount int `json:"amount"`
}

// StatsDTO is the derived-metrics view for one exercise.
type StatsDTO struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LifetimeDone   int        `json:"lifetime_done"`
	BestDay        string     `json:"best_day,omitempty"`
	BestValue      int        `json:"best_value"`
	WeeklyDone     int        `json:"weekly_done"`
	WeeklyGoal     int        `json:"weekly_goal"`
	WeeklyPercent  int        `json:"weekly_percent"`
	CompletedToday bool       `json:"completed_today"`
	Badges         []BadgeDTO `json:"badges"`
}

// HistoryDayDTO is one day of the history view.
type HistoryDayDTO struct {
	Date      string `json:"date"`
	Planned   int    `json:"planned"`
	Done      int    `json:"done"`
	Completed bool   `json:"completed"`
	Percent   int    `json:"percent"`
}

// RangeDTO summarizes a trailing window.
type RangeDTO struct {
	Planned int `json:"planned"`
	Done    int `json:"done"`
	Percent int `json:"percent"`
}

// HistoryDTO is the history panel payload.
type HistoryDTO struct {
	Days  []HistoryDayDTO `json:"days"`
	Week  RangeDTO        `json:"week"`
	Month RangeDTO        `json:"month"`
}

// QuickActionResponse reports a one-shot action.
type QuickActionResponse struct {
	Action   string      `json:"action"`
	Amount   int         `json:"amount"`
	Exercise ExerciseDTO `json:"exercise"`
}

// ImportResponse reports a successful import.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toExerciseDTO(e *exercise.Exercise) ExerciseDTO {
	badges := make([]BadgeDTO, len(e.Badges))
	for i, id := range e.Badges {
		badges[i] = BadgeDTO{ID: id, Name: achievements.RuleName(id)}
	}
	return ExerciseDTO{
		ID:                  e.ID,
		Name:                e.Name,
		DailyTarget:         e.DailyTarget,
		DecrementStep:       e.DecrementStep,
		Remaining:           e.Remaining,
		LastAppliedDate:     string(e.LastAppliedDate),
		CompletionThreshold: e.CompletionThreshold,
		WeeklyGoal:          e.EffectiveWeeklyGoal(),
		QuickSteps:          e.EffectiveQuickSteps(),
		Badges:              badges,
	}
}

func toExerciseDTOs(list []*exercise.Exercise) []ExerciseDTO {
	dtos := make([]ExerciseDTO, len(list))
	for i, e := range list {
		dtos[i] = toExerciseDTO(e)
	}
	return dtos
}

func toStatsDTO(s tracker.Stats) StatsDTO {
	dto := toExerciseDTO(s.Exercise)
	return StatsDTO{
		ID:             dto.ID,
		Name:           dto.Name,
		CurrentStreak:  s.CurrentStreak,
		LongestStreak:  s.LongestStreak,
		LifetimeDone:   s.LifetimeDone,
		BestDay:        string(s.BestDay),
		BestValue:      s.BestValue,
		WeeklyDone:     s.WeeklyDone,
		WeeklyGoal:     s.WeeklyGoal,
		WeeklyPercent:  int(s.WeeklyFraction.Mul(decimal.NewFromInt(100)).Round(0).IntPart()),
		CompletedToday: s.CompletedToday,
		Badges:         dto.Badges,
	}
}

func toHistoryDTO(v tracker.HistoryView) HistoryDTO {
	days := make([]HistoryDayDTO, len(v.Rows))
	for i, row := range v.Rows {
		days[i] = HistoryDayDTO{
			Date:      string(row.Day),
			Planned:   row.Planned,
			Done:      row.Done,
			Completed: row.Completed,
			Percent:   percent(row.Done, row.Planned),
		}
	}
	return HistoryDTO{
		Days:  days,
		Week:  RangeDTO{Planned: v.Week.Planned, Done: v.Week.Done, Percent: percent(v.Week.Done, v.Week.Planned)},
		Month: RangeDTO{Planned: v.Month.Planned, Done: v.Month.Done, Percent: percent(v.Month.Done, v.Month.Planned)},
	}
}

// percent rounds done/planned to a whole percent; zero planned is 0%.
func percent(done, planned int) int {
	if planned <= 0 {
		return 0
	}
	ratio := decimal.NewFromInt(int64(done)).Div(decimal.NewFromInt(int64(planned)))
	return int(ratio.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}
