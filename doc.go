// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the carelink API server.

carelink is the backend of a caregiving app. Admins (caregivers) enroll the
people they care for; each enrollment creates a login identity and a
consumer record holding relationship, emergency contact and free-form
preference forms. Both rows are written in one transaction.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run .

Or with flags:

	go run . -p 8000 -d "postgres://..."
	go run . -d ./carelink.db -t sqlite

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL URL or SQLite file path

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): postgres or sqlite (inferred from the URL)
  - CONFIG_FILE (-c): YAML file with the same keys
  - LOG_LEVEL, LOG_FORMAT: slog level and json/text output
  - HASH_*, SIGNUP_RPS, SIGNUP_BURST, CORS_ORIGIN: see package cliparse

A .env file in the working directory is read as well.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (consumer signup, health)
  - router: Route definitions using Go 1.22+ routing
  - provision: Atomic identity + consumer write
  - middleware: CORS, logging, rate limiting, JSON helpers
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: Credential hashing
  - db: Connections, schema and driver error classification
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
