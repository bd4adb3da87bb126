package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the postgres error code for unique_violation.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a postgres unique constraint
// violation. Used by callers that treat a lost get-or-create race as
// retryable rather than fatal.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
