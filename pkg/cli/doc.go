// Package cli implements the conduitd command-line interface.
//
// # Commands
//
// serve - Run the collector and dashboard API:
//
//	conduitd serve [--targets FILE] [--history FILE] [--port PORT]
//
// Loads the fleet definition, runs an initial collection cycle, then
// serves /api/stats and /api/history while collecting on a fixed
// period in the background.
//
// collect - Run one collection cycle and print the result:
//
//	conduitd collect [--targets FILE] [--format json|yaml|table]
//
// Probes every configured host once and writes the fleet snapshot to
// stdout. Useful for smoke-testing a fleet definition without running
// the server.
//
// # Global Flags
//
//	--config     Optional YAML settings file
//	--log-level  Logging verbosity (debug, info, warn, error)
//
// # Environment Variables
//
//	LOG_LEVEL  Set logging verbosity when --log-level is not given
//	PORT       Override the dashboard API port
package cli
