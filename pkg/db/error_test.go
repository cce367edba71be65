package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.False(t, IsDuplicateKeyErr(errors.New("boom")))

	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsDuplicateKeyErr(errors.New("Error 1062: Duplicate entry")))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: parties.name")))
}

func TestMissingColumn(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		column string
		found  bool
	}{
		{
			"nil", nil, "", false,
		},
		{
			"unrelated", errors.New("connection refused"), "", false,
		},
		{
			"pg error code",
			&pgconn.PgError{Code: "42703", ColumnName: "note"},
			"note", true,
		},
		{
			"pg insert message",
			errors.New(`ERROR: column "note" of relation "documents" does not exist (SQLSTATE 42703)`),
			"note", true,
		},
		{
			"pg select message",
			errors.New(`ERROR: column "market_fee" does not exist`),
			"market_fee", true,
		},
		{
			"sqlite insert",
			errors.New("table documents has no column named commission_rate"),
			"commission_rate", true,
		},
		{
			"sqlite update",
			errors.New("no such column: round_off"),
			"round_off", true,
		},
		{
			"mysql",
			errors.New(`Error 1054 (42S22): Unknown column 'labor_charges' in 'field list'`),
			"labor_charges", true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			column, found := MissingColumn(tc.err)
			assert.Equal(t, tc.found, found)
			assert.Equal(t, tc.column, column)
		})
	}
}
