package weekly

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/utils"
)

const barWidth = 24

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)
)

var titleCaser = cases.Title(language.Und)

// Model shows the trailing-week summary in a scrollable viewport
type Model struct {
	viewport viewport.Model
	summary  *stats.Summary
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.summary == nil {
		return "No statistics yet."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

func (m *Model) SetSummary(s stats.Summary) {
	m.summary = &s
	m.render()
}

func (m *Model) render() {
	if m.summary == nil {
		return
	}
	m.viewport.SetContent(Render(*m.summary))
}

// Render draws the completion chart, the per-weekday habit counts and totals
func Render(s stats.Summary) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Completed, last 7 days") + "\n")
	maxDay := 1
	for _, d := range s.Days {
		maxDay = max(maxDay, d.Completed)
	}
	for _, d := range s.Days {
		label := d.Date
		if wd, err := utils.WeekdayOf(d.Date); err == nil {
			label = titleCaser.String(string(models.DayOfWeekFor(wd)))[:3] + " " + d.Date[5:]
		}
		fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render(label), bar(d.Completed, maxDay), valueStyle.Render(fmt.Sprint(d.Completed)))
	}

	b.WriteString("\n" + headingStyle.Render("Habits per weekday") + "\n")
	maxHabits := 1
	for _, n := range s.HabitsByDay {
		maxHabits = max(maxHabits, n)
	}
	for _, d := range models.Days {
		n := s.HabitsByDay[d]
		fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render(titleCaser.String(string(d))), bar(n, maxHabits), valueStyle.Render(fmt.Sprint(n)))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Habits"), valueStyle.Render(fmt.Sprint(s.TotalHabits)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Completed"), valueStyle.Render(fmt.Sprint(s.TotalCompleted)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Per day"), valueStyle.Render(fmt.Sprintf("%.1f", s.AveragePerDay)))
	fmt.Fprintf(&b, "%s %s", labelStyle.Render("Rate"), valueStyle.Render(fmt.Sprintf("%d%%", s.CompletionRate)))
	return b.String()
}

func bar(n, maxN int) string {
	width := n * barWidth / maxN
	return barStyle.Render(strings.Repeat("█", width)) + emptyStyle.Render(strings.Repeat("·", barWidth-width))
}
