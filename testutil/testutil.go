// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/carelink/auth"
	"github.com/danielhkuo/carelink/cliparse"
	"github.com/danielhkuo/carelink/db"
	"github.com/danielhkuo/carelink/models"
)

// GetTestConfig returns a standard test configuration backed by a fresh
// SQLite file and cheap hashing parameters
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()

	return cliparse.Config{
		Port:            8000,
		DatabaseURL:     filepath.Join(t.TempDir(), "carelink_test.db"),
		DatabaseType:    cliparse.DatabaseSQLite,
		MaxOpenConns:    1,
		WriteTimeout:    5 * time.Second,
		HashMemoryKB:    1024,
		HashIterations:  1,
		HashThreads:     1,
		HashConcurrency: 4,
		SignupBurst:     cliparse.DefaultSignupBurst,
		LogLevel:        "debug",
		LogFormat:       "text",
	}
}

// SetupTestDB opens the configured test database with the full schema
func SetupTestDB(t *testing.T, cfg cliparse.Config) *sql.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(ctx, conn, cfg.DatabaseType); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// NewTestHasher returns a hasher using the config's (cheap) test parameters
func NewTestHasher(cfg cliparse.Config) *auth.Hasher {
	return auth.NewHasher(auth.Params{
		MemoryKB:   cfg.HashMemoryKB,
		Iterations: cfg.HashIterations,
		Threads:    cfg.HashThreads,
	}, cfg.HashConcurrency)
}

// SeedAdmin inserts an admin identity and returns its ID
func SeedAdmin(t *testing.T, conn *sql.DB, email string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO users (name, email, password, emergency_contact, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "Test Admin", email, "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$a2V5", "", models.RoleAdmin).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed admin: %v", err)
	}

	return id
}

// ValidSignup returns a complete signup request owned by adminID
func ValidSignup(email string, adminID int64) models.SignupRequest {
	return models.SignupRequest{
		Name:             "Jane",
		Email:            email,
		Relationship:     "daughter",
		EmergencyContact: "555-1234",
		Password:         "hunter2",
		PreferenceForms:  json.RawMessage(`{"diet":"vegan"}`),
		AdminID:          adminID,
	}
}

// CountRows returns the number of rows in table matching the optional
// WHERE clause
func CountRows(t *testing.T, conn *sql.DB, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var jsonBody []byte
		if raw, ok := body.(string); ok {
			jsonBody = []byte(raw)
		} else {
			jsonBody, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
