package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHostDefaults(t *testing.T) {
	h := NewHost(fleet.Target{Alias: "vps1", Addr: "203.0.113.10", Comment: "frankfurt"})

	assert.Equal(t, "vps1", h.Alias)
	assert.Equal(t, "203.0.113.10", h.Addr)
	assert.Equal(t, "frankfurt", h.Comment)
	assert.False(t, h.Online)
	assert.Equal(t, "N/A", h.Uptime)
	assert.Equal(t, "N/A", h.ConduitUptime)
	assert.Equal(t, "N/A", h.ConduitUp)
	assert.Zero(t, h.Connections)
	assert.Zero(t, h.CPUPercent)
}

func TestEmptyFleetSerializesWithEmptyLists(t *testing.T) {
	data, err := json.Marshal(Empty())
	require.NoError(t, err)

	assert.JSONEq(t, `{"timestamp":"","vps":[],"conduits":[]}`, string(data))
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)
	hosts := []Host{
		{Alias: "a", ConduitRunning: true, Connections: 10, Connecting: 2, ConduitUpGB: 1.5, ConduitDownGB: 3.0},
		{Alias: "b", Connections: 0},
	}

	f := Build(now, hosts)
	assert.Equal(t, "14:05:09", f.Timestamp)
	require.Len(t, f.Conduits, 2)
	assert.Equal(t, "a", f.Conduits[0].Name)
	assert.True(t, f.Conduits[0].Running)
	assert.Equal(t, 10, f.Conduits[0].Connections)
	assert.Equal(t, 10, f.TotalConnections())
}

func TestBuildNilHosts(t *testing.T) {
	f := Build(time.Now(), nil)
	assert.NotNil(t, f.VPS)
	assert.NotNil(t, f.Conduits)
}

func TestHostWireFormat(t *testing.T) {
	data, err := json.Marshal(NewHost(fleet.Target{Alias: "vps1", Addr: "203.0.113.10"}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{
		"alias", "ip", "comment", "online", "cpu_cores", "memory_total_mb",
		"conduit_running", "conduit_uptime", "connections", "connecting",
		"conduit_up", "conduit_down", "conduit_up_gb", "conduit_down_gb",
		"snowflake_running", "snowflake_uptime", "snowflake_clients",
		"torbridge_running", "torbridge_uptime", "torbridge_bootstrap",
		"cpu_percent", "memory_mb", "memory_percent", "uptime",
	} {
		assert.Contains(t, decoded, key)
	}
}
