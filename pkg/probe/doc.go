// Package probe collects one host's full metric set. A probe starts
// with a liveness check and short-circuits for unreachable hosts, then
// gathers container statuses, per-service log metrics and resource
// usage through the cached docker strategy. Stopped services are not
// queried.
package probe
