// Package serializer renders fleet snapshots and history in JSON,
// YAML, or a human-readable table, and provides the JSON response
// helper shared by the HTTP handlers.
package serializer
