package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/store"
)

func TestAddAndListCommands(t *testing.T) {
	ctx, out := newTestContext(t, &stubGateway{})

	add := &AddCmd{Name: "Read", Day: "monday", Category: "Personal"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out.String(), `Added habit "Read" (ID: 1)`) {
		t.Errorf("unexpected add output: %q", out.String())
	}

	out.Reset()
	if err := (&ListCmd{Day: "all", Category: "all"}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Read") || !strings.Contains(out.String(), "Habits (1)") {
		t.Errorf("expected habit in list output, got %q", out.String())
	}
}

func TestAddCommandOffline(t *testing.T) {
	ctx, out := newTestContext(t, &stubGateway{offline: true})

	if err := (&AddCmd{Name: "Stretch", Day: "tue", Category: "salud"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out.String(), "locally") {
		t.Errorf("expected local add message, got %q", out.String())
	}

	habits := ctx.Store.State().Habits
	if len(habits) != 1 || !habits[0].IsLocal {
		t.Fatalf("expected one local habit, got %+v", habits)
	}
	if habits[0].DayOfWeek != models.Tuesday || habits[0].Category != models.CategoryHealth {
		t.Errorf("unexpected day/category: %q/%q", habits[0].DayOfWeek, habits[0].Category)
	}
}

func TestAddCommandRejectsBadInput(t *testing.T) {
	ctx, _ := newTestContext(t, &stubGateway{})

	tests := []struct {
		name string
		cmd  AddCmd
		want error
	}{
		{"bad day", AddCmd{Name: "Run", Day: "someday", Category: "Personal"}, models.ErrInvalidDay},
		{"bad category", AddCmd{Name: "Run", Day: "monday", Category: "Misc"}, models.ErrInvalidCategory},
		{"empty name", AddCmd{Name: "  ", Day: "monday", Category: "Personal"}, models.ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if n := len(ctx.Store.State().Habits); n != 0 {
		t.Errorf("expected no habits, got %d", n)
	}
}

func TestListCommandFilters(t *testing.T) {
	gw := &stubGateway{habits: []models.Habit{
		{ID: "1", Name: "Run", DayOfWeek: models.Monday, Category: models.CategoryHealth},
		{ID: "2", Name: "Plan week", DayOfWeek: models.Sunday, Category: models.CategoryProductivity},
	}}
	ctx, out := newTestContext(t, gw)

	if err := (&ListCmd{Day: "sun", Category: "all"}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.Contains(out.String(), "Run") || !strings.Contains(out.String(), "Plan week") {
		t.Errorf("day filter not applied: %q", out.String())
	}

	out.Reset()
	if err := (&ListCmd{Day: "all", Category: "Productividad"}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.Contains(out.String(), "Run") {
		t.Errorf("category filter not applied: %q", out.String())
	}

	if err := (&ListCmd{Day: "someday"}).Run(ctx); !errors.Is(err, models.ErrInvalidDay) {
		t.Errorf("expected ErrInvalidDay, got %v", err)
	}
}

func TestToggleAndTodayCommands(t *testing.T) {
	gw := &stubGateway{habits: []models.Habit{
		{ID: "1", Name: "Run", DayOfWeek: models.Monday, Category: models.CategoryHealth},
		{ID: "2", Name: "Swim", DayOfWeek: models.Friday, Category: models.CategoryHealth},
	}}
	ctx, out := newTestContext(t, gw)

	if err := (&ToggleCmd{ID: "1", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !strings.Contains(out.String(), "Run completed on 2024-01-01") {
		t.Errorf("unexpected toggle output: %q", out.String())
	}
	if got := ctx.Store.CompletedCountForDate("2024-01-01"); got != 1 {
		t.Errorf("expected 1 completion, got %d", got)
	}

	out.Reset()
	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatalf("today failed: %v", err)
	}
	if !strings.Contains(out.String(), "1/1 completed") || strings.Contains(out.String(), "Swim") {
		t.Errorf("unexpected today output: %q", out.String())
	}

	out.Reset()
	if err := (&ToggleCmd{ID: "1", Date: "2024-01-01"}).Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !strings.Contains(out.String(), "not completed") {
		t.Errorf("expected second toggle to clear completion, got %q", out.String())
	}

	if err := (&ToggleCmd{ID: "1", Date: "01/02/2024"}).Run(ctx); !errors.Is(err, store.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestToggleRejectsBlankID(t *testing.T) {
	ctx, out := newTestContext(t, &stubGateway{})

	for _, id := range []string{"", "  "} {
		if err := (&ToggleCmd{ID: id, Date: "today"}).Run(ctx); !errors.Is(err, errEmptyHabitID) {
			t.Errorf("ToggleCmd{ID: %q}: expected errEmptyHabitID, got %v", id, err)
		}
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
	if got := ctx.Store.CompletedCountForDate("2024-01-01"); got != 0 {
		t.Errorf("expected no completions, got %d", got)
	}
}

func TestEditAndDeleteCommands(t *testing.T) {
	gw := &stubGateway{habits: []models.Habit{
		{ID: "1", Name: "Run", Description: "5k", DayOfWeek: models.Monday, Category: models.CategoryHealth},
	}}
	ctx, out := newTestContext(t, gw)

	if err := (&EditCmd{ID: "1", Name: "Run far", Day: "wed"}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	h, ok := ctx.Store.State().FindHabit("1")
	if !ok {
		t.Fatal("habit disappeared after edit")
	}
	if h.Name != "Run far" || h.DayOfWeek != models.Wednesday || h.Category != models.CategoryHealth {
		t.Errorf("unexpected edited habit: %+v", h)
	}

	if err := (&EditCmd{ID: "missing", Name: "x"}).Run(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	out.Reset()
	if err := (&DeleteCmd{ID: "1"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out.String(), `Deleted habit "Run far"`) {
		t.Errorf("unexpected delete output: %q", out.String())
	}
	if len(ctx.Store.State().Habits) != 0 {
		t.Error("expected habit removed")
	}
}

func TestRefreshAndSyncCommands(t *testing.T) {
	gw := &stubGateway{offline: true}
	ctx, out := newTestContext(t, gw)

	if err := (&AddCmd{Name: "Journal", Day: "monday", Category: "Personal"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out.Reset()
	if err := (&SyncCmd{}).Run(ctx); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if !strings.Contains(out.String(), "unreachable") {
		t.Errorf("expected unreachable message, got %q", out.String())
	}

	gw.mu.Lock()
	gw.offline = false
	gw.mu.Unlock()

	out.Reset()
	if err := (&SyncCmd{}).Run(ctx); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if !strings.Contains(out.String(), "Synced 1 habit(s)") {
		t.Errorf("unexpected sync output: %q", out.String())
	}

	out.Reset()
	if err := (&SyncCmd{}).Run(ctx); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if !strings.Contains(out.String(), "Nothing to sync") {
		t.Errorf("expected nothing to sync, got %q", out.String())
	}

	out.Reset()
	if err := (&RefreshCmd{}).Run(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if !strings.Contains(out.String(), "Refreshed 1 habits") {
		t.Errorf("unexpected refresh output: %q", out.String())
	}
}

func TestFormatDay(t *testing.T) {
	if got := FormatDay(models.Wednesday); got != "Wednesday" {
		t.Errorf("FormatDay() = %q, want Wednesday", got)
	}
}
