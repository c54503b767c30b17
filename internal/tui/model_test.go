package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/store"
	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
)

type offlineGateway struct{}

func (offlineGateway) FetchAll(context.Context) ([]models.Habit, bool) { return nil, false }
func (offlineGateway) Create(context.Context, models.NewHabit) (models.Habit, bool) {
	return models.Habit{}, false
}
func (offlineGateway) Update(context.Context, string, models.HabitPatch) (models.Habit, bool) {
	return models.Habit{}, false
}
func (offlineGateway) Delete(context.Context, string) bool { return false }

type nopCache struct{}

func (nopCache) LoadHabits(context.Context) ([]models.LocalHabit, error)      { return nil, nil }
func (nopCache) LoadProgress(context.Context) ([]models.DailyProgress, error) { return nil, nil }
func (nopCache) Save(context.Context, []models.LocalHabit, []models.DailyProgress) error {
	return nil
}

func newTestModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	monday := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	s := store.New(offlineGateway{}, nopCache{},
		store.WithClock(func() time.Time { return monday }),
		store.WithLocation(time.UTC),
	)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	if _, err := s.AddHabit(ctx, models.NewHabit{Name: "Run", DayOfWeek: models.Monday, Category: models.CategoryHealth}); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}
	if _, err := s.AddHabit(ctx, models.NewHabit{Name: "Swim", DayOfWeek: models.Friday}); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}

	m := NewModel(ctx, s)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), s
}

func TestNewModelShowsStoreState(t *testing.T) {
	m, _ := newTestModel(t)

	if got := m.habitList.Len(); got != 2 {
		t.Errorf("expected 2 habits listed, got %d", got)
	}
	if got := m.todayList.Len(); got != 1 {
		t.Errorf("expected 1 habit scheduled for Monday, got %d", got)
	}
	if !strings.Contains(m.View(), "Run") {
		t.Error("expected habit name in view")
	}
}

func TestTabCycling(t *testing.T) {
	m, _ := newTestModel(t)

	tab := tea.KeyMsg{Type: tea.KeyTab}
	for _, want := range []SessionState{StateToday, StateStats, StateHabits} {
		next, _ := m.Update(tab)
		m = next.(Model)
		if m.state != want {
			t.Fatalf("expected state %d, got %d", want, m.state)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if next.(Model).state != StateStats {
		t.Errorf("expected shift+tab to wrap to stats")
	}
}

func TestToggleMessageUpdatesStore(t *testing.T) {
	m, s := newTestModel(t)
	id := s.State().Habits[0].ID

	_, cmd := m.Update(habitlist.ToggleHabitMsg{ID: id})
	if cmd == nil {
		t.Fatal("expected a command for the toggle")
	}
	msg := cmd()
	result, ok := msg.(resultMsg)
	if !ok {
		t.Fatalf("expected resultMsg, got %T", msg)
	}
	if result.err != nil {
		t.Fatalf("toggle failed: %v", result.err)
	}
	if got := s.CompletedCountForDate("2024-01-01"); got != 1 {
		t.Errorf("expected 1 completion, got %d", got)
	}

	// The published snapshot reaches the model through listen
	stateCmd := m.listen()
	next, _ := m.Update(stateCmd())
	m = next.(Model)
	if got := m.todayList.Done(); got != 1 {
		t.Errorf("expected today list to show 1 done, got %d", got)
	}
}

func TestDeleteConfirmation(t *testing.T) {
	m, s := newTestModel(t)
	h := s.State().Habits[0]

	next, _ := m.Update(habitlist.DeleteHabitMsg{Habit: h})
	m = next.(Model)
	if m.state != StateConfirmDelete {
		t.Fatalf("expected confirm state, got %d", m.state)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = next.(Model)
	if m.state != StateHabits || cmd != nil {
		t.Fatalf("expected cancel back to habits without a command")
	}

	next, _ = m.Update(habitlist.DeleteHabitMsg{Habit: h})
	m = next.(Model)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	if result := cmd().(resultMsg); result.err != nil {
		t.Fatalf("delete failed: %v", result.err)
	}
	if _, ok := s.State().FindHabit(h.ID); ok {
		t.Error("expected habit deleted")
	}
}

func TestAddMessageOpensForm(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(habitlist.AddHabitMsg{})
	m = next.(Model)
	if m.state != StateForm {
		t.Fatalf("expected form state, got %d", m.state)
	}
	if m.habitForm.Day != models.Monday || m.habitForm.Category != models.CategoryPersonal {
		t.Errorf("unexpected form defaults: %+v", m.habitForm)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(Model).state != StateHabits {
		t.Error("expected esc to close the form")
	}
}

func TestSubmitFormAddsHabit(t *testing.T) {
	m, s := newTestModel(t)

	cmd := m.submitForm(HabitFormModel{Name: "Stretch", Day: models.Sunday, Category: models.CategoryHealth}, "")
	result := cmd().(resultMsg)
	if result.err != nil {
		t.Fatalf("add failed: %v", result.err)
	}
	if !strings.Contains(result.status, "locally") {
		t.Errorf("expected local add status, got %q", result.status)
	}
	if n := len(s.State().Habits); n != 3 {
		t.Errorf("expected 3 habits, got %d", n)
	}
}
