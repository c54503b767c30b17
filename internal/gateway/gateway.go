// Package gateway talks to the remote habit collection. Calls never return
// errors: every transport or protocol failure is logged and reported as
// "unavailable" through the boolean result.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
)

// Gateway performs CRUD against the remote habit collection
type Gateway interface {
	FetchAll(ctx context.Context) ([]models.Habit, bool)
	Create(ctx context.Context, habit models.NewHabit) (models.Habit, bool)
	Update(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, bool)
	Delete(ctx context.Context, id string) bool
}

// flexibleID accepts both JSON strings and numbers; json-server assigns
// numeric ids to records created without one.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

// wireHabit is the remote JSON representation of a habit
type wireHabit struct {
	ID          flexibleID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	DayOfWeek   string     `json:"dayOfWeek"`
	Category    string     `json:"category"`
}

// toModel keeps the server's values as-is; normalization is the caller's job
func (w wireHabit) toModel() (models.Habit, error) {
	id := strings.TrimSpace(string(w.ID))
	if id == "" {
		return models.Habit{}, fmt.Errorf("habit %q has no id", w.Name)
	}
	return models.Habit{
		ID:          id,
		Name:        w.Name,
		Description: w.Description,
		DayOfWeek:   models.DayOfWeek(w.DayOfWeek),
		Category:    models.Category(w.Category),
	}, nil
}
