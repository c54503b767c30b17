package storage

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitual/internal/migration"
)

func schemaVersion(ctx context.Context, r *migration.Runner) (int, int, error) {
	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := r.LatestVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}

func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, int, error) {
	if s.db == nil {
		return 0, 0, ErrNotLoaded
	}
	return schemaVersion(ctx, s.runner())
}

func (s *PostgresStore) SchemaVersion(ctx context.Context) (int, int, error) {
	if s.db == nil {
		return 0, 0, ErrNotLoaded
	}
	return schemaVersion(ctx, s.runner())
}
