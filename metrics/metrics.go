// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "carelink"

// Metrics holds the service's collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	provisions        *prometheus.CounterVec
	provisionDuration *prometheus.HistogramVec
	hashDuration      prometheus.Histogram
	hashFailures      prometheus.Counter
	rateLimited       prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		provisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provision",
			Name:      "requests_total",
			Help:      "Consumer provisioning attempts by outcome.",
		}, []string{"outcome"}),
		provisionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provision",
			Name:      "duration_seconds",
			Help:      "End-to-end provisioning latency by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		hashDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "hash_duration_seconds",
			Help:      "Credential hashing latency, including time spent waiting for a slot.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		hashFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "hash_failures_total",
			Help:      "Credential hashing failures.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-IP rate limiter.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.provisions,
		m.provisionDuration,
		m.hashDuration,
		m.hashFailures,
		m.rateLimited,
	)

	return m
}

// ObserveHash records one credential hash
func (m *Metrics) ObserveHash(d time.Duration, err error) {
	m.hashDuration.Observe(d.Seconds())
	if err != nil {
		m.hashFailures.Inc()
	}
}

// ObserveOutcome records the terminal state of one provisioning attempt
func (m *Metrics) ObserveOutcome(outcome string, d time.Duration) {
	m.provisions.WithLabelValues(outcome).Inc()
	m.provisionDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveRateLimited counts one rejected request
func (m *Metrics) ObserveRateLimited() {
	m.rateLimited.Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
