package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// ErrNotArray is returned when a slot does not hold a JSON array
var ErrNotArray = errors.New("cached payload is not a JSON array")

// habitRecord is the lenient on-disk shape of a cached habit
type habitRecord struct {
	ID          json.RawMessage `json:"id"`
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	DayOfWeek   *string         `json:"dayOfWeek"`
	Category    *string         `json:"category"`
	IsLocal     *bool           `json:"isLocal"`
	LegacyLocal *bool           `json:"_isLocal"`
}

type progressRecord struct {
	Date            *string  `json:"date"`
	CompletedHabits []string `json:"completedHabits"`
}

func splitArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to parse cached payload: %w", err)
	}
	return items, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("missing id")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s == "" {
			return "", errors.New("empty id")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", errors.New("id must be a string or number")
	}
	return n.String(), nil
}

func (r habitRecord) toModel() (models.LocalHabit, error) {
	id, err := decodeID(r.ID)
	if err != nil {
		return models.LocalHabit{}, err
	}
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		return models.LocalHabit{}, models.ErrEmptyName
	}

	h := models.LocalHabit{Habit: models.Habit{
		ID:        id,
		Name:      strings.TrimSpace(*r.Name),
		DayOfWeek: models.DefaultDayOfWeek,
		Category:  models.DefaultCategory,
	}}
	if r.Description != nil {
		h.Description = strings.TrimSpace(*r.Description)
	}
	if r.DayOfWeek != nil && *r.DayOfWeek != "" {
		day := models.DayOfWeek(*r.DayOfWeek)
		if !day.Valid() {
			return models.LocalHabit{}, fmt.Errorf("%w: %q", models.ErrInvalidDay, *r.DayOfWeek)
		}
		h.DayOfWeek = day
	}
	if r.Category != nil && *r.Category != "" {
		cat := models.Category(*r.Category)
		if !cat.Valid() {
			return models.LocalHabit{}, fmt.Errorf("%w: %q", models.ErrInvalidCategory, *r.Category)
		}
		h.Category = cat
	}
	switch {
	case r.IsLocal != nil:
		h.IsLocal = *r.IsLocal
	case r.LegacyLocal != nil:
		h.IsLocal = *r.LegacyLocal
	}
	return h, nil
}

// DecodeHabits parses a cached habit list. Malformed records are logged and
// skipped; only a payload that is not an array at all is an error.
func DecodeHabits(data []byte) ([]models.LocalHabit, error) {
	items, err := splitArray(data)
	if err != nil {
		return nil, err
	}

	habits := make([]models.LocalHabit, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, raw := range items {
		var rec habitRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn("Discarding cached habit", "index", i, "error", err)
			continue
		}
		h, err := rec.toModel()
		if err != nil {
			logger.Warn("Discarding cached habit", "index", i, "error", err)
			continue
		}
		if seen[h.ID] {
			logger.Warn("Discarding duplicate cached habit", "index", i, "id", h.ID)
			continue
		}
		seen[h.ID] = true
		habits = append(habits, h)
	}
	return habits, nil
}

// DecodeProgress parses cached progress. Records for the same date are
// merged and completed ids are de-duplicated.
func DecodeProgress(data []byte) ([]models.DailyProgress, error) {
	items, err := splitArray(data)
	if err != nil {
		return nil, err
	}

	progress := make([]models.DailyProgress, 0, len(items))
	index := make(map[string]int, len(items))
	for i, raw := range items {
		var rec progressRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn("Discarding cached progress", "index", i, "error", err)
			continue
		}
		if rec.Date == nil || !utils.ValidateDate(*rec.Date) {
			logger.Warn("Discarding cached progress with invalid date", "index", i)
			continue
		}

		pos, ok := index[*rec.Date]
		if !ok {
			pos = len(progress)
			index[*rec.Date] = pos
			progress = append(progress, models.DailyProgress{Date: *rec.Date, CompletedHabits: []string{}})
		}
		day := &progress[pos]
		for _, id := range rec.CompletedHabits {
			if id == "" || day.Contains(id) {
				continue
			}
			day.CompletedHabits = append(day.CompletedHabits, id)
		}
	}
	return progress, nil
}

// EncodeHabits serializes habits in the cache format
func EncodeHabits(habits []models.LocalHabit) ([]byte, error) {
	if habits == nil {
		habits = []models.LocalHabit{}
	}
	return json.Marshal(habits)
}

// EncodeProgress serializes progress in the cache format
func EncodeProgress(progress []models.DailyProgress) ([]byte, error) {
	out := make([]models.DailyProgress, len(progress))
	for i, p := range progress {
		out[i] = p
		if out[i].CompletedHabits == nil {
			out[i].CompletedHabits = []string{}
		}
	}
	return json.Marshal(out)
}
