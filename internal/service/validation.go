package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"pawfinder/web/internal/security"
)

const passwordStrengthTag = "pwstrength"

// NewValidator returns a validator that also understands the `pwstrength` tag:
// the field's security.PasswordStrength must reach minScore.
func NewValidator(minScore int) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration cannot fail: the tag is non-empty and the func non-nil.
	_ = v.RegisterValidation(passwordStrengthTag, func(fl validator.FieldLevel) bool {
		return security.PasswordStrength(fl.Field().String()) >= minScore
	})
	return v
}

// invalid converts validator output into ErrInvalidInput naming the failed fields.
func invalid(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field())+":"+fe.Tag())
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
