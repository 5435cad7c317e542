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

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=100"`
	LoginID  string `json:"login_id" form:"login_id" validate:"required,max=100"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// LoginRequest is the payload for signing in.
type LoginRequest struct {
	LoginID  string `json:"login_id" form:"login_id" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// CreateGroupRequest is the payload for opening a group chatroom. The
// creator is always added as a member and must not be listed.
type CreateGroupRequest struct {
	Name      string  `json:"name" form:"name" validate:"max=100"`
	MemberIDs []int64 `json:"member_ids" form:"member_ids" validate:"required,min=1,dive,gt=0"`
}
