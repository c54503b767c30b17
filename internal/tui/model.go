package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/store"
	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
	"github.com/julianstephens/habitual/internal/tui/components/weekly"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateToday
	StateStats
	StateForm
	StateConfirmDelete
)

// tabCount is the number of states reachable with tab
const tabCount = 3

type HabitFormModel struct {
	Name        string
	Description string
	Day         models.DayOfWeek
	Category    models.Category
}

// stateMsg carries a snapshot published by the store
type stateMsg models.HabitsState

// resultMsg reports the outcome of a store operation
type resultMsg struct {
	status string
	err    error
}

type Model struct {
	ctx         context.Context
	store       *store.Store
	updates     chan models.HabitsState
	unsubscribe func()

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	habitList     habitlist.Model
	todayList     habitlist.Model
	weeklyModel   weekly.Model

	form          *huh.Form
	habitForm     *HabitFormModel
	editingID     string
	habitToDelete *models.LocalHabit

	snapshot          models.HabitsState
	status            string
	err               error
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(ctx context.Context, s *store.Store) Model {
	updates := make(chan models.HabitsState, 1)
	unsubscribe := s.Subscribe(func(state models.HabitsState) {
		// Keep only the newest snapshot so the store never blocks on the UI
		for {
			select {
			case updates <- state:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})

	m := Model{
		ctx:         ctx,
		store:       s,
		updates:     updates,
		unsubscribe: unsubscribe,
		state:       StateHabits,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitList:   habitlist.New(0, 0),
		todayList:   habitlist.NewForDay(models.DayOfWeekFor(s.Now().Weekday()), 0, 0),
		weeklyModel: weekly.New(0, 0),
	}
	m.applyState(s.State())
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateHabits, StateToday:
		lk := habitlist.DefaultKeyMap()
		keys = append(keys, lk.Add, lk.Toggle, lk.Edit, lk.Delete)
	case StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return append(keys, m.keys.Refresh, m.keys.Sync)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	remote := []key.Binding{m.keys.Refresh, m.keys.Sync}

	var actions []key.Binding
	switch m.state {
	case StateHabits:
		lk := habitlist.DefaultKeyMap()
		actions = []key.Binding{lk.Add, lk.Toggle, lk.Edit, lk.Delete, lk.Day, lk.Category}
	case StateToday:
		lk := habitlist.DefaultKeyMap()
		actions = []key.Binding{lk.Add, lk.Toggle, lk.Edit, lk.Delete, lk.Category}
	}

	return [][]key.Binding{global, actions, remote}
}

func (m Model) Init() tea.Cmd {
	return m.listen()
}

// listen waits for the next store snapshot
func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case state := <-m.updates:
			return stateMsg(state)
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

// run executes a store operation off the UI goroutine
func (m Model) run(op func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		status, err := op(ctx)
		return resultMsg{status: status, err: err}
	}
}

// applyState pushes a snapshot into every view
func (m *Model) applyState(state models.HabitsState) {
	m.snapshot = state

	now := m.store.Now()
	today := utils.DateString(now, now.Location())
	progress, _ := state.ProgressFor(today)

	m.habitList.SetHabits(state.Habits, progress)
	m.todayList.SetDay(models.DayOfWeekFor(now.Weekday()))
	m.todayList.SetHabits(state.Habits, progress)
	m.weeklyModel.SetSummary(stats.Weekly(state, now, now.Location()))

	m.updateValidationStatus(today)
}

// updateValidationStatus summarizes consistency problems in the status bar
func (m *Model) updateValidationStatus(today string) {
	result := validation.Validate(m.snapshot, today)
	if !result.HasConflicts() {
		m.validationWarning = ""
		return
	}
	m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	h, v := docStyle.GetFrameSize()
	// tabs, subtitle, status and help lines
	listHeight := max(height-v-6, 1)
	m.habitList.SetSize(width-h, listHeight)
	m.todayList.SetSize(width-h, listHeight)
	m.weeklyModel.SetSize(width-h, listHeight)
}
