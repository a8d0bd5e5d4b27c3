package defaults

import "time"

// Collection defaults for the fleet polling loop.
const (
	// RefreshInterval is the period between collection cycles.
	RefreshInterval = 15 * time.Second

	// RemoteTimeout bounds every remote command, including the SSH dial
	// and session setup. A hung host costs at most this much per call.
	RemoteTimeout = 15 * time.Second

	// ProbeWorkers is the fixed degree of probing parallelism. Fleets
	// larger than this queue; the pool is independent of fleet size.
	ProbeWorkers = 5

	// HistoryRetention is how far back connection history is kept.
	// Points older than now minus this window are pruned on write.
	HistoryRetention = 48 * time.Hour
)

// File defaults, relative to the working directory unless overridden.
const (
	// TargetsFile is the pipe-delimited fleet definition.
	TargetsFile = "conduit-vps.conf"

	// HistoryFile is the persisted connection history.
	HistoryFile = "conduit-history.json"
)

// Server timeouts for HTTP server configuration.
const (
	// ServerPort is the default dashboard API port.
	ServerPort = 5050

	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)
