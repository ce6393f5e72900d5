package handler

import "github.com/dars410/catalog-api/internal/api/validation"

// ErrorResponse is the canonical error envelope.
type ErrorResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse lists every violated constraint of a rejected body.
type ValidationErrorResponse struct {
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors"`
}
