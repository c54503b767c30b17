package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case stateMsg:
		m.applyState(models.HabitsState(msg))
		return m, m.listen()

	case resultMsg:
		m.status, m.err = msg.status, msg.err
		return m, nil
	}

	switch m.state {
	case StateForm:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if handled, cmd := m.handleListMessage(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.childFiltering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.unsubscribe()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refresh()
		case key.Matches(msg, m.keys.Sync):
			return m, m.sync()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
	case StateToday:
		m.todayList, cmd = m.todayList.Update(msg)
	case StateStats:
		m.weeklyModel, cmd = m.weeklyModel.Update(msg)
	}
	return m, cmd
}

func (m Model) childFiltering() bool {
	switch m.state {
	case StateHabits:
		return m.habitList.Filtering()
	case StateToday:
		return m.todayList.Filtering()
	}
	return false
}

// handleListMessage reacts to actions requested by either habit list
func (m *Model) handleListMessage(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habitlist.AddHabitMsg:
		day := models.DayOfWeekFor(m.store.Now().Weekday())
		m.habitForm = &HabitFormModel{Day: day, Category: models.CategoryPersonal}
		m.editingID = ""
		m.form = NewHabitForm(m.habitForm, "New habit")
		m.previousState, m.state = m.state, StateForm
		return true, m.form.Init()

	case habitlist.EditHabitMsg:
		m.habitForm = &HabitFormModel{
			Name:        msg.Habit.Name,
			Description: msg.Habit.Description,
			Day:         msg.Habit.DayOfWeek,
			Category:    msg.Habit.Category,
		}
		m.editingID = msg.Habit.ID
		m.form = NewHabitForm(m.habitForm, "Edit habit")
		m.previousState, m.state = m.state, StateForm
		return true, m.form.Init()

	case habitlist.DeleteHabitMsg:
		h := msg.Habit
		m.habitToDelete = &h
		m.previousState, m.state = m.state, StateConfirmDelete
		return true, nil

	case habitlist.ToggleHabitMsg:
		id := msg.ID
		s := m.store
		return true, m.run(func(ctx context.Context) (string, error) {
			done, err := s.ToggleHabit(ctx, id, "")
			if err != nil {
				return "", err
			}
			if done {
				return "✓ Marked done for today", nil
			}
			return "○ Unmarked for today", nil
		})
	}
	return false, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.previousState
		cmds = append(cmds, m.submitForm(*m.habitForm, m.editingID))
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

// submitForm creates or edits a habit from the completed form
func (m Model) submitForm(fm HabitFormModel, id string) tea.Cmd {
	s := m.store
	if id == "" {
		return m.run(func(ctx context.Context) (string, error) {
			h, err := s.AddHabit(ctx, models.NewHabit{
				Name:        fm.Name,
				Description: fm.Description,
				DayOfWeek:   fm.Day,
				Category:    fm.Category,
			})
			if err != nil {
				return "", err
			}
			if h.IsLocal {
				return fmt.Sprintf("Added %q locally; sync when the server is back", h.Name), nil
			}
			return fmt.Sprintf("✓ Added %q", h.Name), nil
		})
	}
	return m.run(func(ctx context.Context) (string, error) {
		h, err := s.EditHabit(ctx, id, models.EditHabit{
			Name:        fm.Name,
			Description: fm.Description,
			DayOfWeek:   fm.Day,
			Category:    fm.Category,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("✓ Updated %q", h.Name), nil
	})
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		h := *m.habitToDelete
		m.habitToDelete = nil
		m.state = m.previousState
		s := m.store
		return m, m.run(func(ctx context.Context) (string, error) {
			if err := s.DeleteHabit(ctx, h.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("✓ Deleted %q", h.Name), nil
		})
	case key.Matches(keyMsg, m.keys.Cancel):
		m.habitToDelete = nil
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) refresh() tea.Cmd {
	var discarded []string
	for _, h := range m.snapshot.Habits {
		if h.IsLocal {
			discarded = append(discarded, h.Name)
		}
	}
	s := m.store
	return m.run(func(ctx context.Context) (string, error) {
		ok, err := s.RefreshHabits(ctx)
		if err != nil {
			return "", err
		}
		if !ok {
			return "⚠ Server unreachable, habits unchanged", nil
		}
		if len(discarded) > 0 {
			return "✓ Refreshed; discarded local-only: " + strings.Join(discarded, ", "), nil
		}
		return "✓ Refreshed from server", nil
	})
}

func (m Model) sync() tea.Cmd {
	s := m.store
	return m.run(func(ctx context.Context) (string, error) {
		n, err := s.SyncHabits(ctx)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "Nothing synced", nil
		}
		return fmt.Sprintf("✓ Synced %d habit(s)", n), nil
	})
}

// NewHabitForm builds the add/edit form bound to fm
func NewHabitForm(fm *HabitFormModel, title string) *huh.Form {
	days := make([]huh.Option[models.DayOfWeek], len(models.Days))
	for i, d := range models.Days {
		days[i] = huh.NewOption(titleCase(string(d)), d)
	}
	categories := make([]huh.Option[models.Category], len(models.Categories))
	for i, c := range models.Categories {
		categories[i] = huh.NewOption(string(c), c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return models.ErrEmptyName
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewSelect[models.DayOfWeek]().
				Title("Day").
				Options(days...).
				Value(&fm.Day),
			huh.NewSelect[models.Category]().
				Title("Category").
				Options(categories...).
				Value(&fm.Category),
		),
	).WithTheme(huh.ThemeDracula())
}
