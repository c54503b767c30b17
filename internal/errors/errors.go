// Package errors renders command failures for the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/store"
)

var hints = []struct {
	target error
	hint   string
}{
	{storage.ErrNotLoaded, "run 'habitual init' to create the local store"},
	{store.ErrNotFound, "run 'habitual list' to see habit ids"},
	{store.ErrInvalidDate, "dates use the form 2024-01-31"},
	{models.ErrInvalidDay, "days are monday..sunday or mon..sun"},
	{models.ErrInvalidCategory, "categories are Salud, Productividad or Personal"},
}

// Hint returns a suggestion for errors the user can fix, or ""
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format formats an error with the "Error: " prefix and a hint line when one applies
func Format(err error) string {
	if err == nil {
		return ""
	}
	if hint := Hint(err); hint != "" {
		return fmt.Sprintf("Error: %v\nHint: %s", err, hint)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats a message with the "Error: " prefix
func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err, prints it to stderr and exits with status 1. A nil error is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}

// Fatalf is Fatal for a formatted message
func Fatalf(format string, args ...any) {
	logger.Error("Command failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
