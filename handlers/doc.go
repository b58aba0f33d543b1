// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the carelink API.

# Handler Types

Each handler is a struct built by a constructor with its dependencies:

  - ConsumerHandler: Consumer signup, backed by a provision.Writer
  - HealthHandler: Liveness check that pings the database

	consumerHandler := handlers.NewConsumerHandler(writer)
	healthHandler := handlers.NewHealthHandler(db)

# Consumer Signup

POST /api/consumers takes a models.SignupRequest:

	{
	  "name": "Jane",
	  "email": "jane@x.com",
	  "relationship": "daughter",
	  "emergency_contact": "555-1234",
	  "password": "hunter2",
	  "preferenceForms": {"diet": "vegan"},
	  "admin_id": 7
	}

and answers 201 with the stored consumer record. The credential hash is
never part of the response.

# Error Responses

All errors use models.ErrorResponse with a machine-readable code:

	400 invalid_request    - Body is not valid JSON for the request type
	400 validation_failed  - Missing or malformed fields, listed in "fields"
	409 email_taken        - An identity with this email already exists
	413 invalid_request    - Body larger than middleware.MaxBodyBytes
	500 internal_error     - Hashing or storage failed

Validation runs before any hashing or database work. Storage and hashing
causes are logged with the request ID and never returned to the client.
*/
package handlers
