package habitlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type EditHabitMsg struct {
	Habit models.LocalHabit
}

type DeleteHabitMsg struct {
	Habit models.LocalHabit
}

var titleCaser = cases.Title(language.Und)

type Item struct {
	Habit models.LocalHabit
	Done  bool
}

func (i Item) Title() string {
	mark := "○ "
	if i.Done {
		mark = "✓ "
	}
	title := mark + i.Habit.Name
	if i.Habit.IsLocal {
		title += " (local only)"
	}
	return title
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | %s", titleCaser.String(string(i.Habit.DayOfWeek)), i.Habit.Category)
	if i.Habit.Description != "" {
		desc += " | " + i.Habit.Description
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add      key.Binding
	Toggle   key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Day      key.Binding
	Category key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle today"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Day: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "day filter"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category filter"),
		),
	}
}

// Model lists habits with their completion mark for one date. A model built
// with a fixed day never changes its day filter.
type Model struct {
	list     list.Model
	keys     KeyMap
	habits   []models.LocalHabit
	progress models.DailyProgress
	day      string
	category string
	fixedDay bool
}

func New(width, height int) Model {
	return newModel(constants.FilterAll, false, width, height)
}

// NewForDay builds a list locked to a single weekday
func NewForDay(day models.DayOfWeek, width, height int) Model {
	return newModel(string(day), true, width, height)
}

func newModel(day string, fixedDay bool, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	// q and esc belong to the parent model
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	bindings := []key.Binding{keys.Add, keys.Toggle, keys.Edit, keys.Delete, keys.Category}
	if !fixedDay {
		bindings = append(bindings, keys.Day)
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	return Model{
		list:     l,
		keys:     keys,
		day:      day,
		category: constants.FilterAll,
		fixedDay: fixedDay,
	}
}

// SetHabits replaces the habits shown; progress marks the completed ones
func (m *Model) SetHabits(habits []models.LocalHabit, progress models.DailyProgress) {
	m.habits = habits
	m.progress = progress
	m.refreshItems()
}

// SetDay moves a fixed-day list to another weekday
func (m *Model) SetDay(day models.DayOfWeek) {
	m.day = string(day)
	m.refreshItems()
}

func (m *Model) refreshItems() {
	filtered := models.FilterHabits(m.habits, m.day, m.category)
	items := make([]list.Item, len(filtered))
	for i, h := range filtered {
		items[i] = Item{Habit: h, Done: m.progress.Contains(h.ID)}
	}
	m.list.SetItems(items)
}

// FilterLabel describes the active day and category filters
func (m Model) FilterLabel() string {
	day := "All days"
	if m.day != constants.FilterAll {
		day = titleCaser.String(m.day)
	}
	category := "All categories"
	if m.category != constants.FilterAll {
		category = m.category
	}
	return day + " · " + category
}

// Len is the number of habits passing the filters
func (m Model) Len() int {
	return len(m.list.Items())
}

// Done is the number of listed habits completed
func (m Model) Done() int {
	n := 0
	for _, it := range m.list.Items() {
		if it.(Item).Done {
			n++
		}
	}
	return n
}

func (m *Model) cycleDay() {
	options := make([]string, 0, len(models.Days)+1)
	options = append(options, constants.FilterAll)
	for _, d := range models.Days {
		options = append(options, string(d))
	}
	m.day = next(options, m.day)
	m.refreshItems()
}

func (m *Model) cycleCategory() {
	options := make([]string, 0, len(models.Categories)+1)
	options = append(options, constants.FilterAll)
	for _, c := range models.Categories {
		options = append(options, string(c))
	}
	m.category = next(options, m.category)
	m.refreshItems()
}

func next(options []string, cur string) string {
	for i, o := range options {
		if strings.EqualFold(o, cur) {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditHabitMsg{Habit: i.Habit} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{Habit: i.Habit} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Day):
			if !m.fixedDay {
				m.cycleDay()
			}
			return m, nil
		case key.Matches(msg, m.keys.Category):
			m.cycleCategory()
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		if len(m.habits) == 0 {
			return "\n  No habits yet.\n  Press 'a' to add one."
		}
		return "\n  No habits match " + m.FilterLabel() + "."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Filtering reports whether the list is capturing keys for its search box
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
