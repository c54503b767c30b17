package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var caser = cases.Title(language.Und)

func titleCase(s string) string {
	return caser.String(s)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateHabits:
		content = m.viewHabits()
	case StateToday:
		content = m.viewToday()
	case StateStats:
		content = docStyle.Render(m.weeklyModel.View())
	case StateForm:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Habits", "Today", "Stats"} {
		if m.activeTab() == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// activeTab is the tab to highlight, including while a modal is open
func (m Model) activeTab() SessionState {
	if m.state >= tabCount {
		return m.previousState
	}
	return m.state
}

func (m Model) viewHabits() string {
	subtitle := subtitleStyle.Render(fmt.Sprintf("%d habits · %s", m.habitList.Len(), m.habitList.FilterLabel()))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, subtitle, m.habitList.View()))
}

func (m Model) viewToday() string {
	now := m.store.Now()
	header := fmt.Sprintf("%s, %s · %d/%d done", titleCase(now.Weekday().String()), now.Format("2006-01-02"), m.todayList.Done(), m.todayList.Len())
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, subtitleStyle.Render(header), m.todayList.View()))
}

func (m Model) viewConfirmDelete() string {
	name := ""
	if m.habitToDelete != nil {
		name = m.habitToDelete.Name
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q?", name)),
			"Completion history is kept.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewStatus() string {
	switch {
	case m.snapshot.Loading:
		return warningStyle.Render("Talking to the server...")
	case m.err != nil:
		return dangerStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		line := statusStyle.Render(m.status)
		if m.validationWarning != "" {
			line += "  " + warningStyle.Render(m.validationWarning)
		}
		return line
	}
	return warningStyle.Render(m.validationWarning)
}
