// Package history persists the per-cycle connection counts as a JSON
// time series with a bounded retention window. The on-disk copy is
// authoritative: every read reloads it and every write rewrites it
// whole, so a restarted collector resumes the series seamlessly.
package history
