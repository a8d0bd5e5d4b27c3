package snapshot

import (
	"time"

	"github.com/Hamed-de0/conduit-dashboard/pkg/extract"
	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
)

// ClockLayout is the display timestamp on a published Fleet.
const ClockLayout = "15:04:05"

// Host is the full metric set collected from one target in one cycle.
// An unreachable host still carries every field at its default.
type Host struct {
	Alias   string `json:"alias"`
	Addr    string `json:"ip"`
	Comment string `json:"comment"`
	Online  bool   `json:"online"`

	// Static hardware facts, populated only for reachable hosts.
	CPUCores      int `json:"cpu_cores"`
	MemoryTotalMB int `json:"memory_total_mb"`

	// Conduit tunnel daemon.
	ConduitRunning bool    `json:"conduit_running"`
	ConduitUptime  string  `json:"conduit_uptime"`
	Connections    int     `json:"connections"`
	Connecting     int     `json:"connecting"`
	ConduitUp      string  `json:"conduit_up"`
	ConduitDown    string  `json:"conduit_down"`
	ConduitUpGB    float64 `json:"conduit_up_gb"`
	ConduitDownGB  float64 `json:"conduit_down_gb"`

	// Snowflake proxy.
	SnowflakeRunning bool   `json:"snowflake_running"`
	SnowflakeUptime  string `json:"snowflake_uptime"`
	SnowflakeClients int    `json:"snowflake_clients"`

	// Tor bridge relay.
	TorBridgeRunning   bool   `json:"torbridge_running"`
	TorBridgeUptime    string `json:"torbridge_uptime"`
	TorBridgeBootstrap int    `json:"torbridge_bootstrap"`

	// Resource usage of the primary tunnel container.
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryMB      float64 `json:"memory_mb"`
	MemoryPercent float64 `json:"memory_percent"`

	// Host uptime text, e.g. "3 days, 2 hours".
	Uptime string `json:"uptime"`
}

// NewHost returns a Host for the target with every field at its
// documented default, ready to be filled in by a probe.
func NewHost(target fleet.Target) Host {
	return Host{
		Alias:           target.Alias,
		Addr:            target.Addr,
		Comment:         target.Comment,
		ConduitUptime:   extract.TextUnknown,
		ConduitUp:       extract.TextUnknown,
		ConduitDown:     extract.TextUnknown,
		SnowflakeUptime: extract.TextUnknown,
		TorBridgeUptime: extract.TextUnknown,
		Uptime:          extract.TextUnknown,
	}
}

// Conduit is the flattened per-tunnel-instance view, one entry per
// host carrying the tunnel service.
type Conduit struct {
	Name        string  `json:"name"`
	Running     bool    `json:"running"`
	Connections int     `json:"connections"`
	Connecting  int     `json:"connecting"`
	UpGB        float64 `json:"up_gb"`
	DownGB      float64 `json:"down_gb"`
}

// Fleet is one published collection cycle.
type Fleet struct {
	Timestamp string    `json:"timestamp"`
	VPS       []Host    `json:"vps"`
	Conduits  []Conduit `json:"conduits"`
}

// Empty returns the pre-first-cycle Fleet: empty but fully shaped,
// with non-nil slices so it serializes as [] rather than null.
func Empty() Fleet {
	return Fleet{
		Timestamp: "",
		VPS:       []Host{},
		Conduits:  []Conduit{},
	}
}

// Build aggregates alias-sorted host records into a Fleet stamped with
// the given capture time. Hosts must already be sorted by the caller.
func Build(now time.Time, hosts []Host) Fleet {
	f := Fleet{
		Timestamp: now.Format(ClockLayout),
		VPS:       hosts,
		Conduits:  make([]Conduit, 0, len(hosts)),
	}
	if f.VPS == nil {
		f.VPS = []Host{}
	}
	for _, h := range hosts {
		f.Conduits = append(f.Conduits, Conduit{
			Name:        h.Alias,
			Running:     h.ConduitRunning,
			Connections: h.Connections,
			Connecting:  h.Connecting,
			UpGB:        h.ConduitUpGB,
			DownGB:      h.ConduitDownGB,
		})
	}
	return f
}

// TotalConnections sums established tunnel connections across the
// fleet, used for the per-cycle summary log line.
func (f Fleet) TotalConnections() int {
	total := 0
	for _, h := range f.VPS {
		total += h.Connections
	}
	return total
}
