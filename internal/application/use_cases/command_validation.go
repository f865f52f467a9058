package use_cases

import (
	"errors"
	"strings"

	apperrors "klarnasync/internal/shared_kernel/errors"

	"github.com/go-playground/validator/v10"
)

var commandValidator = validator.New(validator.WithRequiredStructEnabled())

func validateCommand(command any) *apperrors.AppError {
	err := commandValidator.Struct(command)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return apperrors.NewValidation("invalid_request", err.Error(), nil)
	}

	first := fieldErrors[0]
	return apperrors.NewValidation(
		"invalid_request",
		strings.ToLower(first.Field())+" failed "+first.Tag()+" validation",
		map[string]any{
			"field": first.Field(),
			"rule":  first.Tag(),
		},
	)
}
