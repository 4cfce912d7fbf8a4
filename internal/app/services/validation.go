package services

import (
	"github.com/go-playground/validator/v10"
	"github.com/suraj/version24/internal/pkg/apperrors"
)

// validate backs the service-side struct checks. Gin binding covers requests
// arriving over HTTP; services re-validate so they hold the same contract when
// called directly. The tag name matches gin's so DTOs carry one set of rules.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func validateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return apperrors.NewValidationError("invalid value for field " + verrs[0].Field())
		}
		return apperrors.ErrValidationFailed
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 100 {
		return apperrors.ErrInvalidPassword
	}
	return nil
}
