// Package server exposes the collected fleet state over HTTP: the
// dashboard API (/api/stats, /api/history), liveness and readiness
// probes, and Prometheus metrics. Requests pass through a middleware
// chain for instrumentation, request IDs, panic recovery, rate
// limiting and logging.
package server
