package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/cache"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/store"
	"github.com/julianstephens/habitual/internal/telemetry"
	"github.com/julianstephens/habitual/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Storage target: a .db (SQLite) or .json file path, a PostgreSQL URI without password, or 'postgres' to use the keyring. Overrides HABITUAL_STORAGE." type:"string"`
	APIURL   string `name:"api-url" help:"Base URL of the habits server. Overrides HABITUAL_API_URL."`
	Timezone string `help:"IANA timezone for 'today'. Overrides HABITUAL_TIMEZONE."`
	Debug    bool   `help:"Enable debug logging to stderr."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize habitual storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	List     cli.ListCmd     `cmd:"" help:"List habits."`
	Today    cli.TodayCmd    `cmd:"" help:"Show habits scheduled for today."`
	Add      cli.AddCmd      `cmd:"" help:"Add a habit."`
	Edit     cli.EditCmd     `cmd:"" help:"Edit a habit."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete a habit."`
	Toggle   cli.ToggleCmd   `cmd:"" help:"Mark a habit done or not done for a day."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show statistics for the last 7 days."`
	Refresh  cli.RefreshCmd  `cmd:"" help:"Replace local habits with the server's list."`
	Sync     cli.SyncCmd     `cmd:"" help:"Upload local-only habits to the server."`
	Export   cli.ExportCmd   `cmd:"" help:"Export habits and progress."`
	Validate cli.ValidateCmd `cmd:"" help:"Check habits and progress for inconsistencies."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	DebugCmd cli.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Backup   cli.BackupCmd   `cmd:"" help:"Manage storage backups."`
	Keyring  cli.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// Commands that work on the loaded habit state
var stateCommands = map[string]bool{
	"tui": true, "list": true, "today": true, "add": true, "edit": true,
	"delete": true, "toggle": true, "stats": true, "refresh": true,
	"sync": true, "export": true, "validate": true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly habit tracker with offline-first sync"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	errors.Fatal(run(kctx))
}

func run(kctx *kong.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	configDir, err := cfg.ConfigDir()
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.TracingEnabled(),
		ServiceName: constants.AppName,
		Version:     constants.Version,
	})
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("Failed to flush traces", "error", err)
		}
	}()

	command := strings.Fields(kctx.Command())[0]
	appCtx := &cli.Context{Config: cfg, Ctx: ctx}

	if command == "keyring" {
		return kctx.Run(appCtx)
	}

	provider, err := storage.Open(cfg.Storage, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer provider.Close()
	appCtx.Provider = provider

	if command != "init" && command != "doctor" {
		if err := provider.Load(); err != nil {
			if !stderrors.Is(err, storage.ErrNotInitialized) {
				return err
			}
			logger.Info("Storage not initialized, creating it", "target", provider.GetConfigPath())
			if err := provider.Init(); err != nil {
				return err
			}
		}
	}

	appCtx.Gateway = gateway.NewHTTPGateway(cfg.APIURL, gateway.WithTimeout(cfg.HTTPTimeout))

	if stateCommands[command] {
		loc, err := utils.LoadLocation(cfg.Timezone)
		if err != nil {
			return err
		}
		s := store.New(appCtx.Gateway, cache.New(provider), store.WithLocation(loc))
		defer s.Close()
		if err := s.Load(ctx); err != nil {
			return err
		}
		appCtx.Store = s
	}

	logger.Debug("Running command", "command", kctx.Command(), "storage", provider.GetConfigPath())
	return kctx.Run(appCtx)
}

// loadConfig reads the environment and applies command-line overrides
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if CLI.Config != "" {
		cfg.Storage = CLI.Config
	}
	if CLI.APIURL != "" {
		cfg.APIURL = CLI.APIURL
	}
	if CLI.Timezone != "" {
		cfg.Timezone = CLI.Timezone
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
