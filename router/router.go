// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/danielhkuo/carelink/auth"
	"github.com/danielhkuo/carelink/cliparse"
	"github.com/danielhkuo/carelink/handlers"
	"github.com/danielhkuo/carelink/metrics"
	"github.com/danielhkuo/carelink/middleware"
	"github.com/danielhkuo/carelink/provision"
)

// limiterIdleTTL is how long a client's bucket is kept after its last request
const limiterIdleTTL = 10 * time.Minute

func NewRouter(db *sql.DB, cfg cliparse.Config, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Build the provisioning pipeline
	hasher := auth.NewHasher(auth.Params{
		MemoryKB:   cfg.HashMemoryKB,
		Iterations: cfg.HashIterations,
		Threads:    cfg.HashThreads,
	}, cfg.HashConcurrency)

	var observer provision.Observer
	if m != nil {
		observer = m
	}
	writer := provision.NewWriter(db, hasher, cfg.WriteTimeout, observer)

	// Initialize handlers
	consumerHandler := handlers.NewConsumerHandler(writer)
	healthHandler := handlers.NewHealthHandler(db)

	signupLimiter := middleware.NewRateLimiter(cfg.SignupRPS, cfg.SignupBurst, limiterIdleTTL)
	if signupLimiter != nil && m != nil {
		signupLimiter.OnReject = m.ObserveRateLimited
	}

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Metrics
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	// Consumer signup
	mux.HandleFunc("POST /api/consumers", middleware.WithLogging(
		middleware.WithRateLimit(signupLimiter, consumerHandler.CreateConsumer)))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("carelink API v1"))
	})

	return mux
}
