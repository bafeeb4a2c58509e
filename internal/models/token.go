package models

import "time"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is what a successful login yields. The token itself travels in a cookie.
type TokenResponse struct {
	AccessToken string    `json:"-"`
	TokenID     string    `json:"-"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        *User     `json:"user"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FirstName     string     `json:"firstName" validate:"required"`
	LastName      string     `json:"lastName" validate:"required"`
	Email         string     `json:"email" validate:"required,email"`
	Password      string     `json:"password" validate:"required,min=6"`
	ContactNumber string     `json:"contactNumber" validate:"omitempty,len=10,numeric"`
	Role          string     `json:"role" validate:"omitempty,oneof=MASTER_ADMIN ADMIN MANAGER USER"`
	UserType      string     `json:"userType" validate:"required,oneof=internal vendor"`
	Designation   string     `json:"designation" validate:"required"`
	Gender        string     `json:"gender" validate:"omitempty,oneof=male female other"`
	DOB           *time.Time `json:"dob"`
	Location      Location   `json:"location"`
}

// ResetPasswordRequest is the body of PUT /auth/:id/reset-password.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
