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

// LoginRequest is the DTO for the demo session login endpoint.
type LoginRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// SendMessageRequest is the DTO for sending a direct or group message.
// The receiver id comes from the URL; IsGroup selects group addressing.
type SendMessageRequest struct {
	Text    string `json:"text" validate:"required"`
	IsGroup bool   `json:"isGroup"`
}

// CreateGroupRequest is the DTO for creating a group.
type CreateGroupRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Members     []string `json:"members" validate:"required"`
}

// AddMembersRequest is the DTO for adding members to a group.
type AddMembersRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1"`
}

// PromoteRequest is the DTO for promoting a member to admin.
type PromoteRequest struct {
	UserID string `json:"userId" validate:"required"`
}
