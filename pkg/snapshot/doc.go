// Package snapshot defines the published fleet state: one Host record
// per target per cycle, aggregated into a Fleet with a flattened
// per-tunnel-instance view. Every field is always present with a typed
// default so consumers never null-check.
package snapshot
