// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/carelink/models"
)

func TestNewRateLimiter_Disabled(t *testing.T) {
	testCases := []struct {
		name  string
		rps   float64
		burst int
	}{
		{"zero rps", 0, 5},
		{"negative rps", -1, 5},
		{"zero burst", 1, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if l := NewRateLimiter(tc.rps, tc.burst, 0); l != nil {
				t.Error("Expected nil limiter")
			}
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	l := NewRateLimiter(1, 2, time.Minute)
	now := time.Now()

	if !l.Allow("10.0.0.1", now) || !l.Allow("10.0.0.1", now) {
		t.Fatal("Expected burst of 2 to be allowed")
	}
	if l.Allow("10.0.0.1", now) {
		t.Error("Expected third request in the same instant to be rejected")
	}

	// Other clients have their own bucket
	if !l.Allow("10.0.0.2", now) {
		t.Error("Expected a different key to be allowed")
	}

	// Tokens refill over time
	if !l.Allow("10.0.0.1", now.Add(1100*time.Millisecond)) {
		t.Error("Expected a token after one second")
	}
}

func TestRateLimiter_NilAndBlankKey(t *testing.T) {
	var l *RateLimiter
	if !l.Allow("10.0.0.1", time.Now()) {
		t.Error("Expected nil limiter to allow")
	}

	l = NewRateLimiter(1, 1, time.Minute)
	now := time.Now()
	for i := 0; i < 3; i++ {
		if !l.Allow("  ", now) {
			t.Error("Expected blank key to bypass limiting")
		}
	}
}

func TestRateLimiter_EvictsIdle(t *testing.T) {
	l := NewRateLimiter(1, 1, time.Second)
	start := time.Now()
	l.Allow("stale", start)

	later := start.Add(time.Minute)
	for i := 0; i < 511; i++ {
		l.Allow("fresh", later)
	}

	l.mu.Lock()
	_, ok := l.byKey["stale"]
	l.mu.Unlock()
	if ok {
		t.Error("Expected idle entry to be evicted")
	}
}

func TestWithRateLimit(t *testing.T) {
	t.Run("nil limiter passes through", func(t *testing.T) {
		calls := 0
		handler := WithRateLimit(nil, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusCreated)
		})

		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest("POST", "/api/consumers", nil))
			if w.Code != http.StatusCreated {
				t.Fatalf("Expected status 201, got %d", w.Code)
			}
		}
		if calls != 10 {
			t.Errorf("Expected 10 calls, got %d", calls)
		}
	})

	t.Run("rejects over budget", func(t *testing.T) {
		l := NewRateLimiter(0.001, 1, time.Minute)
		rejected := 0
		l.OnReject = func() { rejected++ }

		handler := WithRateLimit(l, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})

		req := httptest.NewRequest("POST", "/api/consumers", nil)
		req.RemoteAddr = "198.51.100.7:4000"

		w := httptest.NewRecorder()
		handler(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected first request to pass, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		handler(w, req)
		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("Expected status 429, got %d", w.Code)
		}
		if w.Header().Get("Retry-After") == "" {
			t.Error("Expected Retry-After header")
		}

		var resp models.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}
		if resp.Error != models.CodeRateLimited {
			t.Errorf("Expected error %q, got %q", models.CodeRateLimited, resp.Error)
		}
		if rejected != 1 {
			t.Errorf("Expected OnReject once, got %d", rejected)
		}

		// A different client is unaffected
		other := httptest.NewRequest("POST", "/api/consumers", nil)
		other.RemoteAddr = "198.51.100.8:4000"
		w = httptest.NewRecorder()
		handler(w, other)
		if w.Code != http.StatusCreated {
			t.Errorf("Expected other client to pass, got %d", w.Code)
		}
	})
}
