package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors the handlers map to HTTP statuses at the boundary.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrProfileExists      = errors.New("profile already exists for user")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation, so insert races lose gracefully instead of surfacing a 500.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
