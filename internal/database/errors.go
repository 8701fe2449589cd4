package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLState codes we look at when reporting failures
const (
	sqlStateQueryCanceled = "57014"
)

// SQLState returns the PostgreSQL error code carried by err, or "" if err did
// not originate from the server.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsCanceled reports whether err is the result of the caller going away or
// the server cancelling the statement.
func IsCanceled(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return SQLState(err) == sqlStateQueryCanceled
}
