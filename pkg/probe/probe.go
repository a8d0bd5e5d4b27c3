package probe

import (
	"context"
	"log/slog"

	"github.com/Hamed-de0/conduit-dashboard/pkg/docker"
	"github.com/Hamed-de0/conduit-dashboard/pkg/extract"
	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
	"github.com/Hamed-de0/conduit-dashboard/pkg/hostfacts"
	"github.com/Hamed-de0/conduit-dashboard/pkg/remote"
	"github.com/Hamed-de0/conduit-dashboard/pkg/snapshot"
)

// Tracked container names on every fleet host.
const (
	ContainerConduit   = "conduit"
	ContainerSnowflake = "snowflake"
	ContainerTorBridge = "tor-bridge"
)

// Probe commands. Each carries its own shell-level fallback so a
// missing tool degrades to parseable output instead of an error.
const (
	livenessCommand   = `uptime -p 2>/dev/null || uptime | awk '{print $3,$4}'`
	containersArgs    = `ps -a --format '{{.Names}}|{{.Status}}' 2>/dev/null`
	conduitLogArgs    = `logs conduit 2>&1 | grep '\[STATS\]' | tail -1`
	snowflakeLogArgs  = `logs snowflake 2>&1 | grep -c 'client connected' 2>/dev/null || echo 0`
	torBridgeLogArgs  = `logs tor-bridge 2>&1 | grep -i 'bootstrap' | tail -1`
	resourceUsageArgs = `stats conduit --no-stream --format '{{.CPUPerc}}|{{.MemUsage}}' 2>/dev/null`
)

// Prober collects a snapshot.Host per target.
type Prober struct {
	runner remote.Runner
	docker *docker.Resolver
	facts  *hostfacts.Cache
}

// New creates a Prober over the given collaborators.
func New(runner remote.Runner, resolver *docker.Resolver, facts *hostfacts.Cache) *Prober {
	return &Prober{
		runner: runner,
		docker: resolver,
		facts:  facts,
	}
}

// Probe collects the target's full metric set. It never returns an
// error: an unreachable host yields a Host with Online=false and every
// other field at its default, and a garbled metric degrades just that
// field.
func (p *Prober) Probe(ctx context.Context, target fleet.Target) snapshot.Host {
	host := snapshot.NewHost(target)

	uptime, err := p.runner.Output(ctx, target, livenessCommand)
	if err != nil {
		slog.Debug("host unreachable", "alias", target.Alias, "error", err)
		return host
	}
	host.Online = true
	host.Uptime = extract.ParseUptime(uptime)

	facts := p.facts.Facts(ctx, target)
	host.CPUCores = facts.Cores
	host.MemoryTotalMB = facts.TotalMemoryMB

	p.containerStatuses(ctx, target, &host)
	p.collectConduit(ctx, target, &host)
	p.collectSnowflake(ctx, target, &host)
	p.collectTorBridge(ctx, target, &host)
	p.collectResourceUsage(ctx, target, &host, facts)

	return host
}

// containerStatuses lists all containers in one call and classifies
// the tracked ones.
func (p *Prober) containerStatuses(ctx context.Context, target fleet.Target, host *snapshot.Host) {
	out, err := p.docker.Command(ctx, target, containersArgs)
	if err != nil {
		slog.Debug("container listing failed", "alias", target.Alias, "error", err)
		return
	}

	containers := extract.ParseContainerList(out)
	host.ConduitRunning, host.ConduitUptime = extract.ContainerStatus(containers, ContainerConduit)
	host.SnowflakeRunning, host.SnowflakeUptime = extract.ContainerStatus(containers, ContainerSnowflake)
	host.TorBridgeRunning, host.TorBridgeUptime = extract.ContainerStatus(containers, ContainerTorBridge)
}

func (p *Prober) collectConduit(ctx context.Context, target fleet.Target, host *snapshot.Host) {
	if !host.ConduitRunning {
		return
	}
	line, err := p.docker.Command(ctx, target, conduitLogArgs)
	if err != nil || line == "" {
		return
	}
	stats := extract.ParseTunnelStats(line)
	host.Connecting = stats.Connecting
	host.Connections = stats.Connected
	host.ConduitUpGB = stats.UpGB
	host.ConduitDownGB = stats.DownGB
	host.ConduitUp = stats.UpDisplay
	host.ConduitDown = stats.DownDisplay
}

func (p *Prober) collectSnowflake(ctx context.Context, target fleet.Target, host *snapshot.Host) {
	if !host.SnowflakeRunning {
		return
	}
	out, err := p.docker.Command(ctx, target, snowflakeLogArgs)
	if err != nil {
		return
	}
	host.SnowflakeClients = extract.ParseCount(out)
}

func (p *Prober) collectTorBridge(ctx context.Context, target fleet.Target, host *snapshot.Host) {
	if !host.TorBridgeRunning {
		return
	}
	line, err := p.docker.Command(ctx, target, torBridgeLogArgs)
	if err != nil {
		return
	}
	host.TorBridgeBootstrap = extract.ParseBootstrapPercent(line)
}

func (p *Prober) collectResourceUsage(ctx context.Context, target fleet.Target, host *snapshot.Host, facts hostfacts.Facts) {
	record, err := p.docker.Command(ctx, target, resourceUsageArgs)
	if err != nil || record == "" {
		return
	}
	usage := extract.ParseResourceUsage(record, facts.Cores, facts.TotalMemoryMB)
	host.CPUPercent = usage.CPUPercent
	host.MemoryMB = usage.MemoryMB
	host.MemoryPercent = usage.MemoryPercent
}
