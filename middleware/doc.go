// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). Every request gets an ID in the X-Request-ID response header;
a well-formed UUID sent by the caller is kept. Handlers read it with
RequestID(r.Context()).

# Rate Limiting

Signup is limited per client IP with a token bucket:

	limiter := middleware.NewRateLimiter(cfg.SignupRPS, cfg.SignupBurst, 10*time.Minute)
	limiter.OnReject = m.ObserveRateLimited
	mux.HandleFunc("POST /api/consumers", middleware.WithLogging(
		middleware.WithRateLimit(limiter, h.CreateConsumer)))

A nil limiter disables limiting. Rejected requests get 429 with
Retry-After and the rate_limited error code.

# CORS Middleware

Enable cross-origin requests for the admin frontend:

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigin)(mux),
	}

An empty origin echoes the request Origin.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusCreated, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidRequest, "Invalid JSON")

Parse JSON request bodies (capped at MaxBodyBytes):

	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used as the rate limiter key. Logs only carry a salted hash of it.
*/
package middleware
