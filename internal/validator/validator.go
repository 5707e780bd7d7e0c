// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bill_recurrence", validateBillRecurrence)
	}
}

func validateBillRecurrence(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "once", "weekly", "monthly", "yearly":
		return true
	}
	return false
}
