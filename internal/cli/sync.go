package cli

import (
	"github.com/julianstephens/habitual/internal/models"
)

type RefreshCmd struct{}

func (c *RefreshCmd) Run(ctx *Context) error {
	var pending []models.LocalHabit
	for _, h := range ctx.Store.State().Habits {
		if h.IsLocal {
			pending = append(pending, h)
		}
	}

	// Refresh discards local-only habits, so keep a copy first
	ctx.PerformAutomaticBackup()

	ok, err := ctx.Store.RefreshHabits(ctx.ctx())
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("⚠ Server unreachable, habits left unchanged.")
		return nil
	}
	ctx.printf("✓ Refreshed %d habits from the server\n", len(ctx.Store.State().Habits))
	if len(pending) > 0 {
		ctx.printf("  Discarded local-only habits: %s\n", joinNames(pending))
	}
	return nil
}

type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *Context) error {
	pending := 0
	for _, h := range ctx.Store.State().Habits {
		if h.IsLocal {
			pending++
		}
	}
	if pending == 0 {
		ctx.println("Nothing to sync.")
		return nil
	}

	synced, err := ctx.Store.SyncHabits(ctx.ctx())
	if err != nil {
		return err
	}
	switch {
	case synced == pending:
		ctx.printf("✓ Synced %d habit(s)\n", synced)
	case synced == 0:
		ctx.println("⚠ Server unreachable, nothing synced.")
	default:
		ctx.printf("⚠ Synced %d of %d habit(s); the rest stay local\n", synced, pending)
	}
	return nil
}
