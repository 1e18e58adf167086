// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("goal_type", validateGoalType)
		_ = v.RegisterValidation("plan_month", validatePlanMonth)
	}
}

func validateGoalType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "save_amount", "save_percent", "save_amount_category", "save_percent_category":
		return true
	}
	return false
}

func validatePlanMonth(fl validator.FieldLevel) bool {
	return monthRegex.MatchString(fl.Field().String())
}
