package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/utils"
)

// Config is the runtime configuration read from HABITUAL_* variables.
// Command-line flags override individual fields after parsing.
type Config struct {
	APIURL       string        `env:"HABITUAL_API_URL"       envDefault:"https://bookster-json-server.millstep.site"`
	Storage      string        `env:"HABITUAL_STORAGE"       envDefault:"~/.config/habitual/habitual.db"`
	Timezone     string        `env:"HABITUAL_TIMEZONE"      envDefault:"Local"`
	HTTPTimeout  time.Duration `env:"HABITUAL_HTTP_TIMEOUT"  envDefault:"10s"`
	Debug        bool          `env:"HABITUAL_DEBUG"`
	DBConnection string        `env:"HABITUAL_DB_CONNECTION"`
	OTelEndpoint string        `env:"HABITUAL_OTEL_ENDPOINT"`
	OTelEnabled  bool          `env:"HABITUAL_OTEL_ENABLED"  envDefault:"true"`
}

// Load parses the environment into a Config and validates it
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values that env parsing cannot
func (c Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api url %q must be an absolute http(s) URL", c.APIURL))
	}
	if strings.TrimSpace(c.Storage) == "" {
		errs = append(errs, errors.New("storage target cannot be empty"))
	}
	if !utils.ValidateTimezone(c.Timezone) {
		errs = append(errs, fmt.Errorf("unknown timezone %q", c.Timezone))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout))
	}

	return errors.Join(errs...)
}

// ConfigDir is the directory holding logs and backups. File stores keep
// them next to the data file; PostgreSQL falls back to the default location.
func (c Config) ConfigDir() (string, error) {
	target := c.Storage
	if strings.HasPrefix(target, "postgres") {
		target = constants.DefaultConfigPath
	}
	path, err := utils.ExpandPath(target)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// TracingEnabled reports whether spans should be exported
func (c Config) TracingEnabled() bool {
	return c.OTelEnabled && strings.TrimSpace(c.OTelEndpoint) != ""
}
