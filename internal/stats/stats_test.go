package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitual/internal/models"
)

func TestCompute(t *testing.T) {
	days := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07"}

	tests := []struct {
		name        string
		state       models.HabitsState
		wantTotal   int
		wantAverage float64
		wantRate    int
	}{
		{
			name:  "no habits",
			state: models.HabitsState{Progress: []models.DailyProgress{{Date: "2024-01-01", CompletedHabits: []string{"x"}}}},
			// completions still count but ratios stay zero
			wantTotal: 1,
		},
		{
			name: "partial week",
			state: models.HabitsState{
				Habits: []models.LocalHabit{
					{Habit: models.Habit{ID: "1", DayOfWeek: models.Monday}},
					{Habit: models.Habit{ID: "2", DayOfWeek: models.Friday}},
				},
				Progress: []models.DailyProgress{
					{Date: "2024-01-01", CompletedHabits: []string{"1", "2"}},
					{Date: "2024-01-03", CompletedHabits: []string{"1"}},
					{Date: "2023-12-25", CompletedHabits: []string{"1"}},
				},
			},
			wantTotal:   3,
			wantAverage: 0.4,
			wantRate:    21,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.state, days)
			if got.TotalCompleted != tt.wantTotal {
				t.Errorf("TotalCompleted = %d, want %d", got.TotalCompleted, tt.wantTotal)
			}
			if got.AveragePerDay != tt.wantAverage {
				t.Errorf("AveragePerDay = %v, want %v", got.AveragePerDay, tt.wantAverage)
			}
			if got.CompletionRate != tt.wantRate {
				t.Errorf("CompletionRate = %d, want %d", got.CompletionRate, tt.wantRate)
			}
			if len(got.Days) != len(days) {
				t.Errorf("expected %d day counts, got %d", len(days), len(got.Days))
			}
		})
	}
}

func TestHabitsByDay(t *testing.T) {
	state := models.HabitsState{Habits: []models.LocalHabit{
		{Habit: models.Habit{ID: "1", DayOfWeek: models.Monday}},
		{Habit: models.Habit{ID: "2", DayOfWeek: models.Monday}},
		{Habit: models.Habit{ID: "3", DayOfWeek: models.Sunday}},
	}}

	got := Compute(state, nil).HabitsByDay
	want := map[models.DayOfWeek]int{
		models.Monday: 2, models.Tuesday: 0, models.Wednesday: 0, models.Thursday: 0,
		models.Friday: 0, models.Saturday: 0, models.Sunday: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("HabitsByDay mismatch (-want +got):\n%s", diff)
	}
}

func TestWeekly(t *testing.T) {
	now := time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC)
	state := models.HabitsState{Progress: []models.DailyProgress{{Date: "2024-01-07", CompletedHabits: []string{"1"}}}}

	got := Weekly(state, now, time.UTC)
	if len(got.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(got.Days))
	}
	if got.Days[0].Date != "2024-01-01" || got.Days[6].Date != "2024-01-07" {
		t.Errorf("unexpected window %s..%s", got.Days[0].Date, got.Days[6].Date)
	}
	if got.Days[6].Completed != 1 {
		t.Errorf("expected today's completion counted, got %d", got.Days[6].Completed)
	}
}
