package app_errors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func MapPgxError(err error) *AppError {
	if errors.Is(err, pgx.ErrNoRows) {
		return NewAppError(404, ErrNotFound, "not_found", nil)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return NewAppError(409, ErrConflict, "conflict", err)
		case "23503": // foreign_key_violation
			return NewAppError(400, ErrValidation, "invalid_request", err)
		case "23514": // check_violation
			return NewAppError(400, ErrValidation, "invalid_request", err)
		case "22P02": // invalid_text_representation, e.g. malformed uuid
			return NewAppError(400, ErrValidation, "invalid_request", err)
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return NewAppError(409, ErrConflict, "conflict.concurrent_update", err)
		}
	}

	return NewInternalError(err)
}
