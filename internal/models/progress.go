package models

import (
	"slices"

	"github.com/julianstephens/habitual/internal/constants"
)

// DailyProgress records which habits were completed on a calendar day
type DailyProgress struct {
	Date            string   `json:"date" yaml:"date"` // YYYY-MM-DD format
	CompletedHabits []string `json:"completedHabits" yaml:"completed_habits"`
}

// Contains reports whether habitID is completed on this day
func (p DailyProgress) Contains(habitID string) bool {
	return slices.Contains(p.CompletedHabits, habitID)
}

// Toggle returns a copy of p with habitID's membership flipped
func (p DailyProgress) Toggle(habitID string) DailyProgress {
	next := DailyProgress{Date: p.Date}
	if p.Contains(habitID) {
		next.CompletedHabits = make([]string, 0, len(p.CompletedHabits))
		for _, id := range p.CompletedHabits {
			if id != habitID {
				next.CompletedHabits = append(next.CompletedHabits, id)
			}
		}
		return next
	}
	next.CompletedHabits = append(slices.Clone(p.CompletedHabits), habitID)
	return next
}

// HabitsState is the aggregate owned by the reconciliation store
type HabitsState struct {
	Habits   []LocalHabit    `json:"habits" yaml:"habits"`
	Progress []DailyProgress `json:"progress" yaml:"progress"`
	Loading  bool            `json:"-" yaml:"-"`
}

// Clone returns a deep copy safe to hand to callers
func (s HabitsState) Clone() HabitsState {
	out := HabitsState{
		Habits:   slices.Clone(s.Habits),
		Progress: make([]DailyProgress, len(s.Progress)),
		Loading:  s.Loading,
	}
	for i, p := range s.Progress {
		out.Progress[i] = DailyProgress{Date: p.Date, CompletedHabits: slices.Clone(p.CompletedHabits)}
	}
	return out
}

// FindHabit returns the habit with the given id
func (s HabitsState) FindHabit(id string) (LocalHabit, bool) {
	for _, h := range s.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return LocalHabit{}, false
}

// ProgressFor returns the progress record for date
func (s HabitsState) ProgressFor(date string) (DailyProgress, bool) {
	for _, p := range s.Progress {
		if p.Date == date {
			return p, true
		}
	}
	return DailyProgress{}, false
}

// CompletedCount is the number of habits completed on date
func (s HabitsState) CompletedCount(date string) int {
	p, ok := s.ProgressFor(date)
	if !ok {
		return 0
	}
	return len(p.CompletedHabits)
}

// FilterHabits keeps habits matching day and category. constants.FilterAll
// (or an empty string) matches everything.
func FilterHabits(habits []LocalHabit, day, category string) []LocalHabit {
	out := make([]LocalHabit, 0, len(habits))
	for _, h := range habits {
		if day != "" && day != constants.FilterAll && string(h.DayOfWeek) != day {
			continue
		}
		if category != "" && category != constants.FilterAll && string(h.Category) != category {
			continue
		}
		out = append(out, h)
	}
	return out
}
