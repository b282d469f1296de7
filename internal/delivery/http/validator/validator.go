// Package validator adapts go-playground/validator to Echo's Validator hook.
package validator

import (
	"github.com/go-playground/validator/v10"
)

// RequestValidator wraps a single validator instance; it is safe for
// concurrent use and caches struct metadata across requests.
type RequestValidator struct {
	validate *validator.Validate
}

// New creates the request validator installed on the Echo server.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator. Handlers translate the returned
// validator.ValidationErrors into their endpoint-specific messages.
func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
