package store

import (
	"github.com/julianstephens/habitual/internal/models"
)

// NormalizeRemote applies field defaults to server records and marks them
// as synced.
func NormalizeRemote(remote []models.Habit) []models.LocalHabit {
	out := make([]models.LocalHabit, 0, len(remote))
	for _, h := range remote {
		out = append(out, models.LocalHabit{Habit: h.Normalize()})
	}
	return out
}

// Merge combines the cached habits with the remote list. Remote habits come
// first and are authoritative; cached habits whose id the remote list does
// not know are appended with their provenance intact. Duplicate ids within
// either list keep their first occurrence.
func Merge(local []models.LocalHabit, remote []models.LocalHabit) []models.LocalHabit {
	remote = dedupe(remote)
	local = dedupe(local)
	for i := range remote {
		remote[i].IsLocal = false
	}

	if len(local) == 0 {
		return remote
	}
	if len(remote) == 0 {
		return local
	}

	merged := make([]models.LocalHabit, 0, len(remote)+len(local))
	known := make(map[string]bool, len(remote))
	for _, h := range remote {
		merged = append(merged, h)
		known[h.ID] = true
	}
	for _, h := range local {
		if !known[h.ID] {
			merged = append(merged, h)
		}
	}
	return merged
}

// dedupe returns a fresh slice without repeated ids
func dedupe(habits []models.LocalHabit) []models.LocalHabit {
	out := make([]models.LocalHabit, 0, len(habits))
	seen := make(map[string]bool, len(habits))
	for _, h := range habits {
		if seen[h.ID] {
			continue
		}
		seen[h.ID] = true
		out = append(out, h)
	}
	return out
}

func indexOf(habits []models.LocalHabit, id string) int {
	for i, h := range habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// replaceAt returns a copy of habits with position i set to h. Any other
// entry already carrying h's id is dropped.
func replaceAt(habits []models.LocalHabit, i int, h models.LocalHabit) []models.LocalHabit {
	out := make([]models.LocalHabit, 0, len(habits))
	for j, cur := range habits {
		switch {
		case j == i:
			out = append(out, h)
		case cur.ID == h.ID:
			continue
		default:
			out = append(out, cur)
		}
	}
	return out
}

func removeAt(habits []models.LocalHabit, i int) []models.LocalHabit {
	out := make([]models.LocalHabit, 0, len(habits)-1)
	out = append(out, habits[:i]...)
	return append(out, habits[i+1:]...)
}

// toggleProgress flips habitID on date, creating the day record if needed
func toggleProgress(progress []models.DailyProgress, habitID, date string) ([]models.DailyProgress, bool) {
	out := make([]models.DailyProgress, len(progress), len(progress)+1)
	copy(out, progress)
	for i, p := range out {
		if p.Date == date {
			out[i] = p.Toggle(habitID)
			return out, out[i].Contains(habitID)
		}
	}
	return append(out, models.DailyProgress{Date: date, CompletedHabits: []string{habitID}}), true
}

// renameInProgress rewrites oldID to newID in every day record
func renameInProgress(progress []models.DailyProgress, oldID, newID string) []models.DailyProgress {
	out := make([]models.DailyProgress, len(progress))
	for i, p := range progress {
		if !p.Contains(oldID) {
			out[i] = p
			continue
		}
		next := models.DailyProgress{Date: p.Date, CompletedHabits: make([]string, 0, len(p.CompletedHabits))}
		for _, id := range p.CompletedHabits {
			if id == oldID {
				id = newID
			}
			if !next.Contains(id) {
				next.CompletedHabits = append(next.CompletedHabits, id)
			}
		}
		out[i] = next
	}
	return out
}
