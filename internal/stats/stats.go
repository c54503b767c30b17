// Package stats summarizes completion history over a trailing window.
package stats

import (
	"math"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// DayCount is the number of habits completed on one date
type DayCount struct {
	Date      string `json:"date" yaml:"date"`
	Completed int    `json:"completed" yaml:"completed"`
}

// Summary is the statistics view of a state
type Summary struct {
	Days           []DayCount               `json:"days" yaml:"days"`
	HabitsByDay    map[models.DayOfWeek]int `json:"habitsByDay" yaml:"habits_by_day"`
	TotalHabits    int                      `json:"totalHabits" yaml:"total_habits"`
	TotalCompleted int                      `json:"totalCompleted" yaml:"total_completed"`
	AveragePerDay  float64                  `json:"averagePerDay" yaml:"average_per_day"`
	CompletionRate int                      `json:"completionRate" yaml:"completion_rate"`
}

// Compute builds a Summary for the given dates, oldest first
func Compute(state models.HabitsState, days []string) Summary {
	s := Summary{
		Days:        make([]DayCount, 0, len(days)),
		HabitsByDay: make(map[models.DayOfWeek]int, len(models.Days)),
		TotalHabits: len(state.Habits),
	}
	for _, d := range models.Days {
		s.HabitsByDay[d] = 0
	}
	for _, h := range state.Habits {
		s.HabitsByDay[h.DayOfWeek]++
	}

	for _, date := range days {
		n := state.CompletedCount(date)
		s.Days = append(s.Days, DayCount{Date: date, Completed: n})
		s.TotalCompleted += n
	}

	if s.TotalHabits == 0 || len(days) == 0 {
		return s
	}
	window := float64(len(days))
	s.AveragePerDay = math.Round(float64(s.TotalCompleted)/window*10) / 10
	s.CompletionRate = int(math.Round(float64(s.TotalCompleted) / (float64(s.TotalHabits) * window) * 100))
	return s
}

// Weekly computes the summary for the last seven days ending at now
func Weekly(state models.HabitsState, now time.Time, loc *time.Location) Summary {
	return Compute(state, utils.LastNDays(now, loc, constants.StatsWindowDays))
}
