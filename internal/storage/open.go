package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/utils"
)

// TargetPostgres selects PostgreSQL with the connection string taken from
// configuration or the OS keyring.
const TargetPostgres = "postgres"

// Open picks a provider for target: a postgres:// URI or the word
// "postgres" selects PostgreSQL, a .json path the JSON file store and
// anything else a SQLite database file.
func Open(target, connStr string) (Provider, error) {
	target = strings.TrimSpace(target)

	if IsPostgresTarget(target) {
		if err := ValidateConnString(target); err != nil {
			return nil, err
		}
		return NewPostgresStore(target), nil
	}

	if target == TargetPostgres {
		// Secrets from the environment or keyring may carry a password
		resolved, err := keyring.ResolveConnectionString(connStr)
		if err != nil {
			return nil, fmt.Errorf("no PostgreSQL connection string configured: %w", err)
		}
		if err := validateFormat(resolved); err != nil {
			return nil, err
		}
		return NewPostgresStore(resolved), nil
	}

	path, err := utils.ExpandPath(target)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path), nil
	}
	return NewSQLiteStore(path), nil
}
