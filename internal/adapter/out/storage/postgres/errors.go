package postgres

import (
	"errors"
	"fmt"

	"commentboard/internal/service"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
	invalidTextRep      = "22P02"
)

// classify maps constraint violations raised by postgres onto service errors.
// Anything else is an internal error.
func classify(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolation, uniqueViolation, invalidTextRep:
			return fmt.Errorf("%w: %s: %s", service.ErrInvalidRequest, op, pgErr.Message)
		}
	}
	return fmt.Errorf("%w: %s: %w", service.ErrInternalError, op, err)
}
