// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the carelink API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	m := metrics.New()
	mux := router.NewRouter(db, cfg, m)

A nil Metrics disables GET /metrics and outcome recording.

# Endpoints

	GET  /health        - 200 "OK", or 503 when the database is unreachable
	GET  /metrics       - Prometheus exposition
	POST /api/consumers - Create a consumer identity and consumer record
	GET  /              - Banner

# Handler Initialization

The router builds the provisioning pipeline from configuration:

	hasher := auth.NewHasher(params, cfg.HashConcurrency)
	writer := provision.NewWriter(db, hasher, cfg.WriteTimeout, m)
	consumerHandler := handlers.NewConsumerHandler(writer)

POST /api/consumers is wrapped with request logging and the per-IP signup
rate limiter (disabled when SIGNUP_RPS is zero).
*/
package router
