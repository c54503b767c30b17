package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// ConflictType represents the kind of inconsistency found in the habit state
type ConflictType string

const (
	ConflictDuplicateHabit   ConflictType = "duplicate_habit"
	ConflictOrphanCompletion ConflictType = "orphan_completion"
	ConflictFutureProgress   ConflictType = "future_progress"
	ConflictInvalidDate      ConflictType = "invalid_date"
	ConflictUnsyncedHabit    ConflictType = "unsynced_habit"
)

// Conflict represents a detected inconsistency
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD, when the conflict concerns a day record
	HabitIDs    []string // habits involved
}

// Warning reports conflicts that are expected in normal use and never need fixing
func (c Conflict) Warning() bool {
	return c.Type == ConflictOrphanCompletion || c.Type == ConflictUnsyncedHabit
}

type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasErrors reports whether any conflict is more than a warning
func (vr *ValidationResult) HasErrors() bool {
	return slices.ContainsFunc(vr.Conflicts, func(c Conflict) bool { return !c.Warning() })
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		marker := "-"
		if c.Warning() {
			marker = "~"
		}
		fmt.Fprintf(&b, "%s %s\n", marker, c.Description)
	}
	return b.String()
}

// Validate checks a habit state for inconsistencies. Completions are
// compared against today so records from the future are reported.
func Validate(state models.HabitsState, today string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	known := make(map[string]bool, len(state.Habits))
	type nameDay struct {
		name string
		day  models.DayOfWeek
	}
	byNameDay := make(map[nameDay][]string)
	var order []nameDay

	for _, h := range state.Habits {
		known[h.ID] = true
		key := nameDay{strings.ToLower(h.Name), h.DayOfWeek}
		if _, seen := byNameDay[key]; !seen {
			order = append(order, key)
		}
		byNameDay[key] = append(byNameDay[key], h.ID)

		if h.IsLocal {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnsyncedHabit,
				Description: fmt.Sprintf("Habit %q has not been synced to the server", h.Name),
				HabitIDs:    []string{h.ID},
			})
		}
	}

	for _, key := range order {
		ids := byNameDay[key]
		if len(ids) < 2 {
			continue
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateHabit,
			Description: fmt.Sprintf("Habit %q is scheduled %d times on %s", key.name, len(ids), key.day),
			HabitIDs:    ids,
		})
	}

	for _, p := range state.Progress {
		if !utils.ValidateDate(p.Date) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Progress record has invalid date %q", p.Date),
				Date:        p.Date,
			})
			continue
		}
		if today != "" && p.Date > today {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureProgress,
				Description: fmt.Sprintf("Progress recorded for future date %s", p.Date),
				Date:        p.Date,
				HabitIDs:    slices.Clone(p.CompletedHabits),
			})
		}

		var orphans []string
		for _, id := range p.CompletedHabits {
			if !known[id] {
				orphans = append(orphans, id)
			}
		}
		if len(orphans) > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanCompletion,
				Description: fmt.Sprintf("%s: %d completion(s) for habits that no longer exist", p.Date, len(orphans)),
				Date:        p.Date,
				HabitIDs:    orphans,
			})
		}
	}

	return result
}
