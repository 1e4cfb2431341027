package app_errors

import (
	"database/sql"
	"errors"
	"strings"
)

// MapSQLiteError maps modernc sqlite failures. The driver only exposes the
// extended result code through its message, so matching happens on text.
func MapSQLiteError(err error) *AppError {
	if errors.Is(err, sql.ErrNoRows) {
		return NewAppError(404, ErrNotFound, "not_found", nil)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return NewAppError(409, ErrConflict, "conflict", err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"):
		return NewAppError(400, ErrValidation, "invalid_request", err)
	case strings.Contains(msg, "database is locked"):
		return NewAppError(409, ErrConflict, "conflict.concurrent_update", err)
	}

	return NewInternalError(err)
}
