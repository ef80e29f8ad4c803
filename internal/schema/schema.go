// Package schema owns the prompts table definition for each supported dialect.
// The same embedded files back startup provisioning and the migrate command.
package schema

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/JaimeStill/promptbase/pkg/query"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrations returns the migration files for dialect, rooted at the dialect directory.
func Migrations(dialect query.Dialect) (fs.FS, error) {
	switch dialect {
	case query.Postgres, query.SQLite:
		return fs.Sub(migrations, path.Join("migrations", string(dialect)))
	}
	return nil, fmt.Errorf("no migrations for dialect %q", dialect)
}

// Provision applies every up migration for dialect in version order.
// Statements are written as CREATE ... IF NOT EXISTS, so provisioning an
// existing schema is a no-op. Existing rows are never migrated.
func Provision(ctx context.Context, db *sql.DB, dialect query.Dialect, logger *slog.Logger) error {
	files, err := Migrations(dialect)
	if err != nil {
		return err
	}

	names, err := fs.Glob(files, "*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	slices.Sort(names)

	for _, name := range names {
		stmt, err := fs.ReadFile(files, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}

		logger.Debug("schema applied", "file", strings.TrimSuffix(name, ".up.sql"))
	}

	logger.Info("schema provisioned", "dialect", dialect, "files", len(names))
	return nil
}
