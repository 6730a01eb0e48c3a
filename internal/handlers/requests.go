package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement
// Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// LoginRequest is the DTO for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
}

// ChatRequest is the DTO for the AI chat endpoint.
type ChatRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Message  string `json:"message" validate:"required"`
}
