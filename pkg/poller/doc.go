// Package poller drives the periodic fleet collection cycle: it fans
// probes out over a bounded worker pool, aggregates the results into
// an alias-sorted fleet snapshot, appends a history point and
// atomically publishes the snapshot for concurrent readers. One bad
// cycle never stops the loop.
package poller
