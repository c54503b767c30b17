// Package export writes the habit state in machine-readable formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitual/internal/models"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported export formats
var Formats = []Format{FormatJSON, FormatYAML}

// ParseFormat accepts json, yaml or yml in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// document is the exported shape; nil lists are written as empty
type document struct {
	ExportedAt string                 `json:"exportedAt" yaml:"exported_at"`
	Habits     []models.LocalHabit    `json:"habits" yaml:"habits"`
	Progress   []models.DailyProgress `json:"progress" yaml:"progress"`
}

// Write encodes state to w. exportedAt is an RFC 3339 timestamp.
func Write(w io.Writer, state models.HabitsState, format Format, exportedAt string) error {
	doc := document{ExportedAt: exportedAt, Habits: state.Habits, Progress: state.Progress}
	if doc.Habits == nil {
		doc.Habits = []models.LocalHabit{}
	}
	if doc.Progress == nil {
		doc.Progress = []models.DailyProgress{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	return nil
}
