package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateInput runs struct validation and folds failures into
// ErrInvalidInput so callers can classify them.
func validateInput(ctx context.Context, payload any) error {
	if err := validate.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
