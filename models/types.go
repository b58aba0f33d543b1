package models

import (
	"encoding/json"
	"time"
)

// Identity role constants
const (
	RoleConsumer = "consumer"
	RoleAdmin    = "admin"
)

const SignupSuccessMessage = "Consumer and user data saved successfully!"

// Machine-readable error codes returned in ErrorResponse.Error
const (
	CodeInvalidRequest   = "invalid_request"
	CodeValidationFailed = "validation_failed"
	CodeEmailTaken       = "email_taken"
	CodeRateLimited      = "rate_limited"
	CodeInternal         = "internal_error"
)

// Request types

// preferenceForms is opaque structured data stored verbatim
type SignupRequest struct {
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Relationship     string          `json:"relationship"`
	EmergencyContact string          `json:"emergency_contact"`
	Password         string          `json:"password"`
	PreferenceForms  json.RawMessage `json:"preferenceForms"`
	AdminID          int64           `json:"admin_id"`
}

// Response types

type SignupResponse struct {
	Message string   `json:"message"`
	User    Consumer `json:"user"`
}

// Domain types

// User is an identity row
type User struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // Never expose in JSON
	EmergencyContact string    `json:"emergency_contact"`
	Role             string    `json:"role"`
	CreatedAt        time.Time `json:"created_at"`
}

// Consumer is the dependent row linked to exactly one User
type Consumer struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Relationship     string          `json:"relationship"`
	EmergencyContact string          `json:"emergency_contact"`
	PasswordHash     string          `json:"-"` // Never expose in JSON
	PreferenceForms  json.RawMessage `json:"preferenceForms"`
	AdminID          int64           `json:"admin_id"`
	UserID           int64           `json:"user_id"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Message string   `json:"message"`
	Error   string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
}
