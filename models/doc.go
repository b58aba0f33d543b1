// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - SignupRequest: name, email, relationship, emergency_contact, password,
    preferenceForms (any JSON value), admin_id

# Response Types

  - SignupResponse: message, user (the stored Consumer)
  - ErrorResponse: message, error (machine-readable code), fields

# Domain Types

  - User: identity row (role "consumer" or "admin")
  - Consumer: dependent row linked to exactly one User via user_id

Credential hashes are tagged json:"-" on both and never leave the server.

# Error Codes

	CodeInvalidRequest   = "invalid_request"
	CodeValidationFailed = "validation_failed"
	CodeEmailTaken       = "email_taken"
	CodeRateLimited      = "rate_limited"
	CodeInternal         = "internal_error"
*/
package models
