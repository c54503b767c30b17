package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/utils"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	now := ctx.Store.Now()
	summary := stats.Weekly(ctx.Store.State(), now, now.Location())
	ctx.println(RenderSummary(summary))
	return nil
}

// RenderSummary formats a statistics summary with bar charts
func RenderSummary(s stats.Summary) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Last 7 days") + "\n")
	maxDay := 1
	for _, d := range s.Days {
		maxDay = max(maxDay, d.Completed)
	}
	for _, d := range s.Days {
		label := d.Date
		if wd, err := utils.WeekdayOf(d.Date); err == nil {
			label = FormatDay(models.DayOfWeekFor(wd))[:3] + " " + d.Date[5:]
		}
		fmt.Fprintf(&b, "  %-9s %s %d\n", label, bar(d.Completed, maxDay), d.Completed)
	}

	b.WriteString("\n" + headerStyle.Render("Habits by day") + "\n")
	maxHabits := 1
	for _, n := range s.HabitsByDay {
		maxHabits = max(maxHabits, n)
	}
	for _, d := range models.Days {
		n := s.HabitsByDay[d]
		fmt.Fprintf(&b, "  %-9s %s %d\n", FormatDay(d)[:3], bar(n, maxHabits), n)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "  Total habits:      %d\n", s.TotalHabits)
	fmt.Fprintf(&b, "  Completed (7d):    %d\n", s.TotalCompleted)
	fmt.Fprintf(&b, "  Average per day:   %.1f\n", s.AveragePerDay)
	fmt.Fprintf(&b, "  Completion rate:   %d%%", s.CompletionRate)
	return b.String()
}

const barWidth = 20

func bar(n, maxN int) string {
	width := 0
	if maxN > 0 {
		width = n * barWidth / maxN
	}
	return barStyle.Render(strings.Repeat("█", width)) + dimStyle.Render(strings.Repeat("·", barWidth-width))
}
