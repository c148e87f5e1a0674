package store

import (
	"context"
	"embed"

	"github.com/pkg/errors"
)

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "migration/sqlite/LATEST.sql"

// Migrate applies the latest schema to an uninitialized database.
// The schema is a single credential table, so no incremental migration
// chain is kept; re-running against an initialized database is a no-op.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database initialization")
	}
	if initialized {
		return nil
	}

	buf, err := migrationFS.ReadFile(latestSchemaFileName)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema %s", latestSchemaFileName)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	return nil
}
