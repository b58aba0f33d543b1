// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveOutcome(t *testing.T) {
	m := New()

	m.ObserveOutcome("committed", 10*time.Millisecond)
	m.ObserveOutcome("committed", 20*time.Millisecond)
	m.ObserveOutcome("conflict", 5*time.Millisecond)

	if got := promtest.ToFloat64(m.provisions.WithLabelValues("committed")); got != 2 {
		t.Errorf("committed = %v, want 2", got)
	}
	if got := promtest.ToFloat64(m.provisions.WithLabelValues("conflict")); got != 1 {
		t.Errorf("conflict = %v, want 1", got)
	}
}

func TestObserveHash(t *testing.T) {
	m := New()

	m.ObserveHash(50*time.Millisecond, nil)
	m.ObserveHash(time.Millisecond, errors.New("no entropy"))

	if got := promtest.ToFloat64(m.hashFailures); got != 1 {
		t.Errorf("hash failures = %v, want 1", got)
	}
	if got := promtest.CollectAndCount(m.hashDuration); got != 1 {
		t.Errorf("hash duration series = %d, want 1", got)
	}
}

func TestObserveRateLimited(t *testing.T) {
	m := New()
	m.ObserveRateLimited()
	m.ObserveRateLimited()

	if got := promtest.ToFloat64(m.rateLimited); got != 2 {
		t.Errorf("rate limited = %v, want 2", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveOutcome("committed", time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		`carelink_provision_requests_total{outcome="committed"} 1`,
		"carelink_provision_duration_seconds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
