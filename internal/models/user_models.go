package models

import "time"

// Role is the closed set of account roles. Authorization guards compare against
// these constants only; no other role values are ever stored.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account (customer, delivery agent, or admin).
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	EmailAddress   string    `json:"email_address"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	Role           Role      `json:"role"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Name         string `json:"name" validate:"required"`
	EmailAddress string `json:"email_address" validate:"required,email"`
	Age          int    `json:"age" validate:"required,gt=0"`
	Gender       string `json:"gender" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	Role         Role   `json:"role" validate:"required,oneof=customer agent admin"`
	Password     string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the payload for credential verification.
type LoginRequest struct {
	EmailAddress string `json:"email_address" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token alongside the basic identity
// the frontend needs without decoding the token itself.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// UpdateUserRequest is the payload for the admin user-update endpoint.
// All fields are optional; absent fields are left untouched.
type UpdateUserRequest struct {
	Name         *string `json:"name,omitempty"`
	EmailAddress *string `json:"email_address,omitempty" validate:"omitempty,email"`
	Age          *int    `json:"age,omitempty" validate:"omitempty,gt=0"`
	Gender       *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	Role         *Role   `json:"role,omitempty" validate:"omitempty,oneof=customer agent admin"`
}
