package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/cache"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *Context) error
	// warnOnly checks never fail the command
	warnOnly bool
}

var doctorChecks = []check{
	{name: "Storage reachable", run: checkStorageReachable},
	{name: "Schema version", run: checkSchemaVersion},
	{name: "Cached data readable", run: checkCachedData},
	{name: "Remote service reachable", run: checkRemote, warnOnly: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Keyring", run: checkKeyring, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	storageOK := true
	for _, c := range doctorChecks {
		if !storageOK && c.name == "Cached data readable" {
			ctx.printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.printf("⚠ %s: WARNING\n", c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", c.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Storage reachable" {
				storageOK = false
			}
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	if err := ctx.Provider.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Provider.Read(ctx.ctx(), storage.SlotHabits); err != nil && !errors.Is(err, storage.ErrSlotEmpty) {
		return fmt.Errorf("failed to read storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	versioned, ok := ctx.Provider.(storage.Versioned)
	if !ok {
		// JSON storage has no schema
		return nil
	}
	current, latest, err := versioned.SchemaVersion(ctx.ctx())
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("schema version %d is newer than supported version %d", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkCachedData(ctx *Context) error {
	c := cache.New(ctx.Provider)
	habits, err := c.LoadHabits(ctx.ctx())
	if err != nil {
		return fmt.Errorf("cached habits unreadable: %w", err)
	}
	progress, err := c.LoadProgress(ctx.ctx())
	if err != nil {
		return fmt.Errorf("cached progress unreadable: %w", err)
	}
	ctx.printf("   %d habits, %d days of progress\n", len(habits), len(progress))
	return nil
}

func checkRemote(ctx *Context) error {
	if ctx.Gateway == nil {
		return errors.New("no remote service configured")
	}
	habits, ok := ctx.Gateway.FetchAll(ctx.ctx())
	if !ok {
		return fmt.Errorf("could not fetch habits from %s; changes will stay local until it is back", ctx.Config.APIURL)
	}
	ctx.printf("   %d habits on the server\n", len(habits))
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := ctx.backupManager()
	if mgr == nil {
		return nil
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found, consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkKeyring(ctx *Context) error {
	// Only a bare "postgres" target reads its secret from the keyring
	if ctx.Config.Storage != storage.TargetPostgres || ctx.Config.DBConnection != "" {
		return nil
	}
	if !keyring.IsAvailable() {
		return keyring.ErrUnavailable
	}
	if _, err := keyring.GetConnectionString(); err != nil {
		return fmt.Errorf("%w, store one with 'habitual keyring set'", err)
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone %q", ctx.Config.Timezone)
	}
	return nil
}
