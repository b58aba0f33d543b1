// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus collectors for the API.

	m := metrics.New()
	mux.Handle("GET /metrics", m.Handler())

Metrics implements provision.Observer, so it can be handed straight to the
provisioning writer.

# Series

  - carelink_provision_requests_total{outcome}
  - carelink_provision_duration_seconds{outcome}
  - carelink_auth_hash_duration_seconds
  - carelink_auth_hash_failures_total
  - carelink_http_rate_limited_total

Go runtime and process collectors are registered as well.
*/
package metrics
