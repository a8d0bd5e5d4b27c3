// Package file provides a small line-oriented parser for delimiter-separated
// configuration files, with comment skipping and size/UTF-8 validation.
package file
