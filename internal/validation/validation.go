// Package validation defines the API request DTOs and their validation.
package validation

import (
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"elevate-agent/internal/model"
)

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	CustomerQuery string `json:"customer_query" validate:"required,max=1000"`
	SessionID     string `json:"session_id" validate:"omitempty,uuid4"`
}

// PaymentRequest is the body for both payment initiation endpoints.
type PaymentRequest struct {
	OrderID int `json:"order_id" validate:"required,gt=0"`
}

// New returns a configured validator.
func New() *validatorv10.Validate {
	return validatorv10.New()
}

// Check runs struct validation and converts failures into a single
// APIError naming the offending fields.
func Check(v *validatorv10.Validate, in interface{}) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		var fields []string
		for _, fe := range ve {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return model.NewValidationError(strings.Join(fields, ", "), "failed validation")
	}
	return model.NewValidationError("body", err.Error())
}
