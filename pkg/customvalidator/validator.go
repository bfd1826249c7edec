// Файл: pkg/customvalidator/validators.go

package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"agenda-system/pkg/constants"
)

// RegisterCustomValidations регистрирует все наши кастомные правила валидации.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("activity_status", isActivityStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("urgency", isUrgency); err != nil {
		return err
	}
	if err := v.RegisterValidation("hex_or_name_color", isColor); err != nil {
		return err
	}
	return nil
}

func isActivityStatus(fl validator.FieldLevel) bool {
	return constants.ActivityStatus(fl.Field().String()).IsValid()
}

func isUrgency(fl validator.FieldLevel) bool {
	return constants.Urgency(fl.Field().String()).IsValid()
}

var colorRegex = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|[a-zA-Z]{3,20})$`)

func isColor(fl validator.FieldLevel) bool {
	return colorRegex.MatchString(fl.Field().String())
}
