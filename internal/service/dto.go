package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CreateCommentRequest struct {
	Commenter string `validate:"required,uuid"`
	Comment   string
}

// UpdateCommentRequest carries a nil Comment when the body had no such field;
// the update then matches without modifying.
type UpdateCommentRequest struct {
	ID      string `validate:"required,uuid"`
	Comment *string
}

type CreateUserRequest struct {
	Name    string `validate:"required,max=255"`
	Age     int    `validate:"gte=0,lte=200"`
	Married bool
	Comment string
}

func validateID(field, id string) error {
	if err := validate.Var(id, "required,uuid"); err != nil {
		return fmt.Errorf("%w: %s must be a uuid", ErrInvalidRequest, field)
	}
	return nil
}
