// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package provision

import (
	"bytes"
	"encoding/json"
	"net/mail"
	"strings"

	"github.com/danielhkuo/carelink/models"
)

// Validate checks every required field and returns the normalized request:
// text fields trimmed, email lower-cased. The password is kept as typed.
// preferenceForms must be present; an empty object or array is fine.
func Validate(req models.SignupRequest) (models.SignupRequest, error) {
	var invalid []string

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		invalid = append(invalid, "name")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(req.Email) {
		invalid = append(invalid, "email")
	}

	req.Relationship = strings.TrimSpace(req.Relationship)
	if req.Relationship == "" {
		invalid = append(invalid, "relationship")
	}

	req.EmergencyContact = strings.TrimSpace(req.EmergencyContact)
	if req.EmergencyContact == "" {
		invalid = append(invalid, "emergency_contact")
	}

	if strings.TrimSpace(req.Password) == "" {
		invalid = append(invalid, "password")
	}

	prefs := bytes.TrimSpace(req.PreferenceForms)
	if len(prefs) == 0 || bytes.Equal(prefs, []byte("null")) || !json.Valid(prefs) {
		invalid = append(invalid, "preferenceForms")
	}

	if req.AdminID <= 0 {
		invalid = append(invalid, "admin_id")
	}

	if len(invalid) > 0 {
		return models.SignupRequest{}, validationError(invalid)
	}
	return req, nil
}

// validEmail accepts a bare address only, no display name
func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
