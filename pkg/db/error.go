package db

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	// MySQL (error code 1062)
	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	// SQLite (error code 2067)
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}

var missingColumnPatterns = []*regexp.Regexp{
	// PostgreSQL: column "foo" of relation "bills" does not exist
	regexp.MustCompile(`column "([^"]+)" of relation`),
	// PostgreSQL: column "foo" does not exist
	regexp.MustCompile(`column "([^"]+)" does not exist`),
	// SQLite insert: table documents has no column named foo
	regexp.MustCompile(`has no column named (\S+)`),
	// SQLite update/select: no such column: foo
	regexp.MustCompile(`no such column:? ([^\s"]+)`),
	// MySQL: Unknown column 'foo' in 'field list'
	regexp.MustCompile(`Unknown column '([^']+)'`),
}

// MissingColumn reports the column name referenced by a schema-mismatch
// error, so writers can strip the field and retry.
func MissingColumn(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42703" && pgErr.ColumnName != "" {
		return pgErr.ColumnName, true
	}

	msg := err.Error()
	for _, pattern := range missingColumnPatterns {
		if m := pattern.FindStringSubmatch(msg); len(m) == 2 {
			return strings.Trim(m[1], `"'`), true
		}
	}
	return "", false
}
