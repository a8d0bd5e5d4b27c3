// Package extract turns raw command and log output into typed metric
// values. Every function is pure: no I/O, no shared state, and a
// defined fallback for output that does not match, so a garbled line
// degrades one metric instead of failing the probe.
package extract
