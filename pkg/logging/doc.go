// Package logging wraps the standard library slog package with
// collector-wide defaults: structured JSON output to stderr, module and
// version context on every record, environment-based level configuration
// (LOG_LEVEL), and source location tracking for debug logs.
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("conduitd", version)
//
//	    slog.Info("collection cycle complete", "hosts", 4)
//	    slog.Debug("strategy resolved", "identity", id, "strategy", s)
//	}
//
// If LOG_LEVEL is not set, the level defaults to INFO.
package logging
