// Package errors provides structured error types for better observability
// and programmatic error handling across the collector.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTransport,
//	    "liveness probe failed",
//	    cause,
//	    map[string]interface{}{
//	        "alias": target.Alias,
//	        "addr":  target.Addr,
//	    },
//	)
package errors
