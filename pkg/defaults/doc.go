// Package defaults centralizes timeout and file-location constants so that
// collection, history, and server packages stay consistent without importing
// each other.
package defaults
