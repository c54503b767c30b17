package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/store"
)

// Context is handed to every command's Run method
type Context struct {
	Config   config.Config
	Provider storage.Provider
	Gateway  gateway.Gateway
	Store    *store.Store

	// Ctx is cancelled on interrupt; nil means context.Background
	Ctx context.Context
	// Out and In default to stdout and stdin
	Out io.Writer
	In  io.Reader
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) ctx() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// confirm asks a yes/no question, defaulting to no
func (c *Context) confirm(prompt string) (bool, error) {
	c.printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.in()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// backupManager returns a manager for file-based stores, nil for PostgreSQL
func (c *Context) backupManager() *backup.Manager {
	if c.Provider == nil {
		return nil
	}
	if _, ok := c.Provider.(*storage.PostgresStore); ok {
		return nil
	}
	return backup.NewManager(c.Provider.GetConfigPath())
}

// PerformAutomaticBackup creates a backup and only logs failures
func (c *Context) PerformAutomaticBackup() {
	mgr := c.backupManager()
	if mgr == nil {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

var titleCaser = cases.Title(language.Und)

// FormatDay renders a weekday for display, e.g. "Monday"
func FormatDay(d models.DayOfWeek) string {
	return titleCaser.String(string(d))
}

// parseDayFilter accepts "all" or any weekday spelling
func parseDayFilter(s string) (string, error) {
	if s == "" || strings.EqualFold(s, "all") {
		return "all", nil
	}
	d, err := models.ParseDayOfWeek(s)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

func parseCategoryFilter(s string) (string, error) {
	if s == "" || strings.EqualFold(s, "all") {
		return "all", nil
	}
	c, err := models.ParseCategory(s)
	if err != nil {
		return "", err
	}
	return string(c), nil
}

// resolveDate turns "", "today" or a YYYY-MM-DD string into a date for the store
func resolveDate(s string) string {
	if strings.EqualFold(s, "today") {
		return ""
	}
	return s
}
