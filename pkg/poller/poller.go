package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Hamed-de0/conduit-dashboard/pkg/defaults"
	"github.com/Hamed-de0/conduit-dashboard/pkg/errors"
	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
	"github.com/Hamed-de0/conduit-dashboard/pkg/history"
	"github.com/Hamed-de0/conduit-dashboard/pkg/snapshot"
	"golang.org/x/sync/errgroup"
)

// Prober collects one host's metric set. It never fails; unreachable
// hosts come back with Online=false.
type Prober interface {
	Probe(ctx context.Context, target fleet.Target) snapshot.Host
}

// TargetSource supplies the fleet definition. It is consulted at the
// start of every cycle, so an edited targets file takes effect on the
// next cycle without a restart.
type TargetSource func() ([]fleet.Target, error)

// FileTargetSource reads targets from the given path on every call.
func FileTargetSource(path string) TargetSource {
	return func() ([]fleet.Target, error) {
		return fleet.LoadTargets(path)
	}
}

// StaticTargetSource serves a fixed target list.
func StaticTargetSource(targets []fleet.Target) TargetSource {
	return func() ([]fleet.Target, error) {
		return targets, nil
	}
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides the cycle period.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithWorkers overrides the probe pool size.
func WithWorkers(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

// Poller owns the published snapshot and the collection loop.
type Poller struct {
	prober   Prober
	targets  TargetSource
	store    *history.File
	interval time.Duration
	workers  int
	now      func() time.Time

	mu        sync.RWMutex
	published snapshot.Fleet
	ready     bool
}

// New creates a Poller. The zero snapshot it publishes before the
// first cycle is empty but fully shaped.
func New(prober Prober, targets TargetSource, store *history.File, opts ...Option) *Poller {
	p := &Poller{
		prober:    prober,
		targets:   targets,
		store:     store,
		interval:  defaults.RefreshInterval,
		workers:   defaults.ProbeWorkers,
		now:       time.Now,
		published: snapshot.Empty(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshot returns the latest published fleet snapshot. Safe to call
// concurrently with a cycle in progress.
func (p *Poller) Snapshot() snapshot.Fleet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.published
}

// History reloads and returns the persisted store. The disk copy is
// authoritative for history reads.
func (p *Poller) History() history.Store {
	return p.store.Load()
}

// Ready reports whether at least one cycle has completed.
func (p *Poller) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ready
}

// RunCycle performs one complete collection cycle: probe every target
// concurrently, publish the aggregated snapshot and append a history
// point. The snapshot is published even when history persistence
// fails; losing durability for one cycle is acceptable, losing
// liveness is not.
func (p *Poller) RunCycle(ctx context.Context) error {
	started := p.now()

	targets, err := p.targets()
	if err != nil {
		cycleTotal.WithLabelValues("error").Inc()
		return errors.Wrap(errors.ErrCodeCycle, "failed to load targets", err)
	}

	hosts := p.probeAll(ctx, targets)
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].Alias < hosts[j].Alias })

	now := p.now()
	f := snapshot.Build(now, hosts)

	p.mu.Lock()
	p.published = f
	p.ready = true
	p.mu.Unlock()

	connections := make(map[string]int, len(hosts))
	names := make([]string, 0, len(hosts))
	online := 0
	for _, h := range hosts {
		connections[h.Alias] = h.Connections
		names = append(names, h.Alias)
		if h.Online {
			online++
		}
	}

	cycleDuration.Observe(p.now().Sub(started).Seconds())
	hostsOnline.Set(float64(online))
	totalConnections.Set(float64(f.TotalConnections()))

	if err := p.store.Append(now, connections, names); err != nil {
		cycleTotal.WithLabelValues("error").Inc()
		slog.Error("failed to persist history", "error", err)
		return nil
	}
	cycleTotal.WithLabelValues("success").Inc()

	slog.Info(fmt.Sprintf("Stats updated: %d VPS, %d total connections",
		len(hosts), f.TotalConnections()),
		"online", online, "duration", p.now().Sub(started).Round(time.Millisecond).String())
	return nil
}

// probeAll fans out one probe per target over the bounded pool and
// waits for all of them. Results land in per-index slots, so no result
// ordering or locking is needed.
func (p *Poller) probeAll(ctx context.Context, targets []fleet.Target) []snapshot.Host {
	hosts := make([]snapshot.Host, len(targets))

	g := &errgroup.Group{}
	g.SetLimit(p.workers)
	for i, target := range targets {
		g.Go(func() error {
			probeStarted := p.now()
			hosts[i] = p.prober.Probe(ctx, target)
			probeDuration.WithLabelValues(target.Alias).Observe(p.now().Sub(probeStarted).Seconds())
			return nil
		})
	}
	// probes never return errors, Wait only joins the pool
	_ = g.Wait()

	return hosts
}

// Run executes cycles on the configured period until ctx is canceled.
// The first cycle runs immediately. A panicking cycle is logged and
// the loop continues on schedule.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runCycleSafe(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("collection loop stopped")
			return
		case <-ticker.C:
			p.runCycleSafe(ctx)
		}
	}
}

func (p *Poller) runCycleSafe(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			cycleTotal.WithLabelValues("error").Inc()
			slog.Error("collection cycle panicked", "panic", fmt.Sprintf("%v", r))
		}
	}()

	if err := p.RunCycle(ctx); err != nil {
		slog.Error("collection cycle failed", "error", err)
	}
}
