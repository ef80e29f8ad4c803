package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// pgIntegrityClass is the PostgreSQL SQLSTATE class for integrity constraint
// violations (unique, check, not null, foreign key).
const pgIntegrityClass = "23"

// MapError translates database errors to domain errors.
// It maps sql.ErrNoRows to notFoundErr and integrity constraint violations
// (PostgreSQL class 23, SQLite SQLITE_CONSTRAINT) to constraintErr.
// Other errors are returned unchanged.
func MapError(err error, notFoundErr, constraintErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	if IsConstraint(err) {
		return constraintErr
	}

	return err
}

// IsConstraint reports whether err is an integrity constraint violation.
func IsConstraint(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgIntegrityClass)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	return false
}
