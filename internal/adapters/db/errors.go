// internal/adapters/db/errors.go
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

// mapError translates engine errors into domain error kinds. Constraint
// failures keep their own kind; anything else is a storage failure.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		msg := sqliteErr.Error()
		switch code := sqliteErr.Code(); {
		case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE,
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
			code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "UNIQUE"):
			return &domain.ConstraintError{Field: constraintColumn(msg)}
		case code == sqlite3.SQLITE_CONSTRAINT_CHECK,
			code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
			code == sqlite3.SQLITE_CONSTRAINT_NOTNULL,
			code&0xff == sqlite3.SQLITE_CONSTRAINT:
			return fmt.Errorf("%s: %s: %w", op, msg, domain.ErrConstraintViolation)
		}
	}

	return &domain.StorageError{Op: op, Err: err}
}

// constraintColumn pulls the column out of "UNIQUE constraint failed: products.part_number".
func constraintColumn(msg string) string {
	i := strings.LastIndex(msg, "failed: ")
	if i < 0 {
		return "key"
	}
	after := strings.TrimSpace(msg[i+len("failed: "):])
	if j := strings.IndexAny(after, " ,("); j >= 0 {
		after = after[:j]
	}
	if j := strings.LastIndex(after, "."); j >= 0 {
		after = after[j+1:]
	}
	if after == "" {
		return "key"
	}
	return after
}
