package sqlite

import (
	"errors"
	"fmt"

	"commentboard/internal/service"

	"github.com/mattn/go-sqlite3"
)

func classify(err error, op string) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s: %v", service.ErrInvalidRequest, op, err)
	}
	return fmt.Errorf("%w: %s: %w", service.ErrInternalError, op, err)
}
