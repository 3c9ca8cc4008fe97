package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/studymap/studymap-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   error
		wantErr error
	}{
		{
			name:    "nil error returns nil",
			input:   nil,
			wantErr: nil,
		},
		{
			name:    "sql.ErrNoRows maps to ErrNotFound",
			input:   sql.ErrNoRows,
			wantErr: store.ErrNotFound,
		},
		{
			name:    "wrapped sql.ErrNoRows maps to ErrNotFound",
			input:   fmt.Errorf("query failed: %w", sql.ErrNoRows),
			wantErr: store.ErrNotFound,
		},
		{
			name:    "unique violation maps to ErrDuplicate",
			input:   &pgconn.PgError{Code: "23505", ConstraintName: "study_sets_pkey"},
			wantErr: store.ErrDuplicate,
		},
		{
			name:    "check violation maps to ErrInvalidEntity",
			input:   &pgconn.PgError{Code: "23514", ConstraintName: "study_sets_category_check"},
			wantErr: store.ErrInvalidEntity,
		},
		{
			name:    "not null violation maps to ErrInvalidEntity",
			input:   &pgconn.PgError{Code: "23502", ColumnName: "summary_markdown"},
			wantErr: store.ErrInvalidEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tc.input)
			if tc.wantErr == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.wantErr)
		})
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	t.Parallel()

	orig := errors.New("connection reset")
	got := MapError(orig)
	assert.Equal(t, orig, got, "unrecognized errors should pass through unchanged")
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.False(t, IsUniqueViolation(nil))
}
