package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

type ListCmd struct {
	Day      string `help:"Only show habits for this weekday, or 'all'." default:"all"`
	Category string `help:"Only show habits in this category, or 'all'." default:"all"`
}

func (c *ListCmd) Run(ctx *Context) error {
	day, err := parseDayFilter(c.Day)
	if err != nil {
		return err
	}
	category, err := parseCategoryFilter(c.Category)
	if err != nil {
		return err
	}

	state := ctx.Store.State()
	habits := models.FilterHabits(state.Habits, day, category)
	if len(habits) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	today := ctx.Store.Today()
	progress, _ := state.ProgressFor(today)
	ctx.println(headerStyle.Render(fmt.Sprintf("Habits (%d)", len(habits))))
	for _, h := range habits {
		ctx.println("  " + formatHabitLine(h, progress.Contains(h.ID)))
	}
	return nil
}

// formatHabitLine renders one habit with its completion mark for today
func formatHabitLine(h models.LocalHabit, done bool) string {
	mark := "○"
	if done {
		mark = doneStyle.Render("✓")
	}
	line := fmt.Sprintf("%s %s  %s", mark, h.Name, dimStyle.Render(fmt.Sprintf("[%s · %s] id: %s", FormatDay(h.DayOfWeek), h.Category, h.ID)))
	if h.IsLocal {
		line += " " + localStyle.Render("(local only)")
	}
	if h.Description != "" {
		line += "\n      " + dimStyle.Render(h.Description)
	}
	return line
}

type AddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `short:"d" help:"Optional description."`
	Day         string `short:"w" help:"Weekday the habit is scheduled for." default:"monday"`
	Category    string `short:"c" help:"Category: Salud, Productividad or Personal." default:"Personal"`
}

func (c *AddCmd) Run(ctx *Context) error {
	day, err := models.ParseDayOfWeek(c.Day)
	if err != nil {
		return err
	}
	category, err := models.ParseCategory(c.Category)
	if err != nil {
		return err
	}

	h, err := ctx.Store.AddHabit(ctx.ctx(), models.NewHabit{
		Name:        c.Name,
		Description: c.Description,
		DayOfWeek:   day,
		Category:    category,
	})
	if err != nil {
		return err
	}

	if h.IsLocal {
		ctx.printf("✓ Added habit %q locally (ID: %s)\n", h.Name, h.ID)
		ctx.println("  The server is unreachable; run 'habitual sync' later to upload it.")
		return nil
	}
	ctx.printf("✓ Added habit %q (ID: %s)\n", h.Name, h.ID)
	return nil
}

type EditCmd struct {
	ID          string `arg:"" help:"ID of the habit to edit."`
	Name        string `short:"n" help:"New name." required:""`
	Description string `short:"d" help:"New description; omitted clears it."`
	Day         string `short:"w" help:"New weekday; omitted keeps the current one."`
	Category    string `short:"c" help:"New category; omitted keeps the current one."`
}

func (c *EditCmd) Run(ctx *Context) error {
	edit := models.EditHabit{Name: c.Name, Description: c.Description}
	if c.Day != "" {
		day, err := models.ParseDayOfWeek(c.Day)
		if err != nil {
			return err
		}
		edit.DayOfWeek = day
	}
	if c.Category != "" {
		category, err := models.ParseCategory(c.Category)
		if err != nil {
			return err
		}
		edit.Category = category
	}

	h, err := ctx.Store.EditHabit(ctx.ctx(), c.ID, edit)
	if err != nil {
		return err
	}
	ctx.printf("✓ Updated habit %q\n", h.Name)
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"ID of the habit to delete."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	h, ok := ctx.Store.State().FindHabit(c.ID)
	if err := ctx.Store.DeleteHabit(ctx.ctx(), c.ID); err != nil {
		return err
	}
	if ok {
		ctx.printf("✓ Deleted habit %q\n", h.Name)
	}
	return nil
}

var errEmptyHabitID = errors.New("habit id cannot be empty")

type ToggleCmd struct {
	ID   string `arg:"" help:"ID of the habit to toggle."`
	Date string `help:"Day to toggle (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *ToggleCmd) Run(ctx *Context) error {
	if strings.TrimSpace(c.ID) == "" {
		return errEmptyHabitID
	}
	date := resolveDate(c.Date)
	done, err := ctx.Store.ToggleHabit(ctx.ctx(), c.ID, date)
	if err != nil {
		return err
	}
	if date == "" {
		date = ctx.Store.Today()
	}

	name := c.ID
	if h, ok := ctx.Store.State().FindHabit(c.ID); ok {
		name = h.Name
	}
	if done {
		ctx.printf("✓ %s completed on %s\n", name, date)
	} else {
		ctx.printf("○ %s not completed on %s\n", name, date)
	}
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	now := ctx.Store.Now()
	today := utils.DateString(now, now.Location())
	day := models.DayOfWeekFor(now.Weekday())

	state := ctx.Store.State()
	habits := models.FilterHabits(state.Habits, string(day), "all")
	progress, _ := state.ProgressFor(today)

	ctx.println(headerStyle.Render(fmt.Sprintf("%s, %s", FormatDay(day), today)))
	if len(habits) == 0 {
		ctx.println("No habits scheduled for today.")
		return nil
	}

	done := 0
	for _, h := range habits {
		if progress.Contains(h.ID) {
			done++
		}
		ctx.println("  " + formatHabitLine(h, progress.Contains(h.ID)))
	}
	ctx.printf("\n%d/%d completed\n", done, len(habits))
	return nil
}

// joinNames lists habit names for messages
func joinNames(habits []models.LocalHabit) string {
	names := make([]string, len(habits))
	for i, h := range habits {
		names[i] = h.Name
	}
	return strings.Join(names, ", ")
}
