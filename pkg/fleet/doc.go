// Package fleet defines the monitored host inventory: the Target type,
// the pipe-delimited targets file format, and the optional YAML
// settings layered over the built-in defaults.
package fleet
