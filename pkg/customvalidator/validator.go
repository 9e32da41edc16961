package customvalidator

import (
	"github.com/go-playground/validator/v10"

	"parc-info/pkg/constants"
	"parc-info/pkg/utils"
)

// RegisterCustomValidations wires the project-specific rules into the
// validator instance used by echo.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("role", isKnownRole); err != nil {
		return err
	}
	if err := v.RegisterValidation("dateformat", isParseableDate); err != nil {
		return err
	}
	if err := v.RegisterValidation("decision", isDecision); err != nil {
		return err
	}
	if err := v.RegisterValidation("typestock", isTypeStock); err != nil {
		return err
	}
	return nil
}

func isKnownRole(fl validator.FieldLevel) bool {
	return constants.IsValidRole(fl.Field().String())
}

// Dates arrive from the frontend and from Excel imports in a handful of
// layouts; accept the same set the importer coerces.
func isParseableDate(fl validator.FieldLevel) bool {
	_, err := utils.ParseDate(fl.Field().String())
	return err == nil
}

func isDecision(fl validator.FieldLevel) bool {
	return constants.IsDecision(fl.Field().String())
}

func isTypeStock(fl validator.FieldLevel) bool {
	return constants.IsValidTypeStock(fl.Field().String())
}
