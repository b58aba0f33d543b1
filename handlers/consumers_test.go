// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/carelink/middleware"
	"github.com/danielhkuo/carelink/models"
	"github.com/danielhkuo/carelink/provision"
	"github.com/danielhkuo/carelink/testutil"
)

func newTestConsumerHandler(t *testing.T) (*ConsumerHandler, *sql.DB) {
	t.Helper()

	cfg := testutil.GetTestConfig(t)
	conn := testutil.SetupTestDB(t, cfg)
	t.Cleanup(func() { conn.Close() })

	writer := provision.NewWriter(conn, testutil.NewTestHasher(cfg), cfg.WriteTimeout, nil)
	return NewConsumerHandler(writer), conn
}

func TestCreateConsumer(t *testing.T) {
	h, conn := newTestConsumerHandler(t)
	adminID := testutil.SeedAdmin(t, conn, "admin@x.com")

	body := fmt.Sprintf(`{
		"name": "Jane",
		"email": "jane@x.com",
		"relationship": "daughter",
		"emergency_contact": "555-1234",
		"password": "hunter2",
		"preferenceForms": {"diet": "vegan"},
		"admin_id": %d
	}`, adminID)

	req := testutil.MakeRequest("POST", "/api/consumers", body, nil)
	w := httptest.NewRecorder()
	h.CreateConsumer(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	// The hash must never reach the client
	if strings.Contains(w.Body.String(), "argon2id") || strings.Contains(w.Body.String(), "password") {
		t.Errorf("Response leaks the credential: %s", w.Body.String())
	}

	var resp models.SignupResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Message != models.SignupSuccessMessage {
		t.Errorf("Expected message %q, got %q", models.SignupSuccessMessage, resp.Message)
	}
	if resp.User.ID == 0 || resp.User.UserID == 0 {
		t.Errorf("Expected generated ids, got id=%d user_id=%d", resp.User.ID, resp.User.UserID)
	}
	if resp.User.Name != "Jane" || resp.User.Email != "jane@x.com" {
		t.Errorf("Unexpected user: %+v", resp.User)
	}
	if resp.User.AdminID != adminID {
		t.Errorf("Expected admin_id %d, got %d", adminID, resp.User.AdminID)
	}
	if string(resp.User.PreferenceForms) != `{"diet":"vegan"}` {
		t.Errorf("Expected preferenceForms round-trip, got %s", resp.User.PreferenceForms)
	}
	if resp.User.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	if n := testutil.CountRows(t, conn, "users", "id = $1 AND role = $2", resp.User.UserID, models.RoleConsumer); n != 1 {
		t.Errorf("Expected linked consumer identity, found %d", n)
	}
}

func TestCreateConsumer_DuplicateEmail(t *testing.T) {
	h, conn := newTestConsumerHandler(t)
	adminID := testutil.SeedAdmin(t, conn, "admin@x.com")

	signup := testutil.ValidSignup("jane@x.com", adminID)

	w := httptest.NewRecorder()
	h.CreateConsumer(w, testutil.MakeRequest("POST", "/api/consumers", signup, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	usersBefore := testutil.CountRows(t, conn, "users", "")
	consumersBefore := testutil.CountRows(t, conn, "consumers", "")

	w = httptest.NewRecorder()
	h.CreateConsumer(w, testutil.MakeRequest("POST", "/api/consumers", signup, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Error != models.CodeEmailTaken {
		t.Errorf("Expected error %q, got %q", models.CodeEmailTaken, resp.Error)
	}

	if got := testutil.CountRows(t, conn, "users", ""); got != usersBefore {
		t.Errorf("Expected %d users, got %d", usersBefore, got)
	}
	if got := testutil.CountRows(t, conn, "consumers", ""); got != consumersBefore {
		t.Errorf("Expected %d consumers, got %d", consumersBefore, got)
	}
}

func TestCreateConsumer_BadRequests(t *testing.T) {
	h, conn := newTestConsumerHandler(t)
	adminID := testutil.SeedAdmin(t, conn, "admin@x.com")

	missingPassword := testutil.ValidSignup("jane@x.com", adminID)
	missingPassword.Password = ""

	nullPrefs := fmt.Sprintf(`{"name":"Jane","email":"jane@x.com","relationship":"daughter",`+
		`"emergency_contact":"555-1234","password":"hunter2","preferenceForms":null,"admin_id":%d}`, adminID)

	testCases := []struct {
		name       string
		body       interface{}
		wantCode   string
		wantFields []string
	}{
		{
			name:     "malformed JSON",
			body:     `{"name": "Jane",`,
			wantCode: models.CodeInvalidRequest,
		},
		{
			name:     "wrong type",
			body:     `{"admin_id": "seven"}`,
			wantCode: models.CodeInvalidRequest,
		},
		{
			name:       "missing password",
			body:       missingPassword,
			wantCode:   models.CodeValidationFailed,
			wantFields: []string{"password"},
		},
		{
			name:       "null preferences",
			body:       nullPrefs,
			wantCode:   models.CodeValidationFailed,
			wantFields: []string{"preferenceForms"},
		},
		{
			name:     "empty object",
			body:     `{}`,
			wantCode: models.CodeValidationFailed,
			wantFields: []string{
				"name", "email", "relationship", "emergency_contact",
				"password", "preferenceForms", "admin_id",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.CreateConsumer(w, testutil.MakeRequest("POST", "/api/consumers", tc.body, nil))

			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Error != tc.wantCode {
				t.Errorf("Expected error %q, got %q", tc.wantCode, resp.Error)
			}
			if strings.Join(resp.Fields, ",") != strings.Join(tc.wantFields, ",") {
				t.Errorf("Expected fields %v, got %v", tc.wantFields, resp.Fields)
			}
		})
	}

	// Nothing was written, not even the identity row
	if n := testutil.CountRows(t, conn, "users", "role = $1", models.RoleConsumer); n != 0 {
		t.Errorf("Expected no consumer identities, found %d", n)
	}
}

func TestCreateConsumer_BodyTooLarge(t *testing.T) {
	h, _ := newTestConsumerHandler(t)

	body := `{"name":"` + strings.Repeat("a", middleware.MaxBodyBytes) + `"}`
	w := httptest.NewRecorder()
	h.CreateConsumer(w, testutil.MakeRequest("POST", "/api/consumers", body, nil))

	testutil.AssertStatus(t, w, http.StatusRequestEntityTooLarge)
}

func TestCreateConsumer_UnknownAdmin(t *testing.T) {
	h, conn := newTestConsumerHandler(t)

	w := httptest.NewRecorder()
	h.CreateConsumer(w, testutil.MakeRequest("POST", "/api/consumers", testutil.ValidSignup("jane@x.com", 999), nil))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Error != models.CodeInternal {
		t.Errorf("Expected error %q, got %q", models.CodeInternal, resp.Error)
	}
	// Driver text stays in the logs
	if strings.Contains(strings.ToLower(resp.Message), "constraint") {
		t.Errorf("Response leaks storage detail: %q", resp.Message)
	}

	// The identity insert was rolled back with the failed dependent insert
	if n := testutil.CountRows(t, conn, "users", "email = $1", "jane@x.com"); n != 0 {
		t.Errorf("Expected no orphaned identity, found %d", n)
	}
}

// TestCreateConsumer_ConcurrentSameEmail verifies that simultaneous signups
// for one email produce exactly one account
func TestCreateConsumer_ConcurrentSameEmail(t *testing.T) {
	h, conn := newTestConsumerHandler(t)
	adminID := testutil.SeedAdmin(t, conn, "admin@x.com")

	const attempts = 8
	var created, conflicted atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			h.CreateConsumer(w, testutil.MakeRequest("POST", "/api/consumers", testutil.ValidSignup("race@x.com", adminID), nil))

			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicted.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("Expected exactly 1 success, got %d", created.Load())
	}
	if conflicted.Load() != attempts-1 {
		t.Errorf("Expected %d conflicts, got %d", attempts-1, conflicted.Load())
	}
	if n := testutil.CountRows(t, conn, "consumers", "email = $1", "race@x.com"); n != 1 {
		t.Errorf("Expected 1 consumer row, found %d", n)
	}
}

func TestHealth(t *testing.T) {
	cfg := testutil.GetTestConfig(t)
	conn := testutil.SetupTestDB(t, cfg)
	h := NewHealthHandler(conn)

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest("GET", "/health", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}

	conn.Close()

	w = httptest.NewRecorder()
	h.Health(w, httptest.NewRequest("GET", "/health", nil))
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
}
