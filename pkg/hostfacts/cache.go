package hostfacts

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Hamed-de0/conduit-dashboard/pkg/extract"
	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
	"github.com/Hamed-de0/conduit-dashboard/pkg/remote"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	// coresCommand falls back through three probes; the first that
	// prints a positive integer wins.
	coresCommand = `nproc 2>/dev/null || getconf _NPROCESSORS_ONLN 2>/dev/null || grep -c '^processor' /proc/cpuinfo 2>/dev/null`

	// memCommand prints the MemTotal value in kB.
	memCommand = `grep -i '^MemTotal:' /proc/meminfo 2>/dev/null | awk '{print $2}'`
)

// Facts are the static properties of a host that downstream metric
// normalization depends on.
type Facts struct {
	// Cores is the CPU core count, at least 1 so per-core division is
	// always safe.
	Cores int

	// TotalMemoryMB is the host memory in MB, 0 when unknown. Zero is
	// the sentinel meaning "memory percentage cannot be computed".
	TotalMemoryMB int
}

// defaultFacts are used when discovery cannot reach the host.
func defaultFacts() Facts {
	return Facts{Cores: 1, TotalMemoryMB: 0}
}

// Cache memoizes Facts per endpoint for the process lifetime. Entries
// are append-only; a host resized mid-run keeps its stale facts until
// restart, the same trade-off the strategy resolver makes.
type Cache struct {
	runner remote.Runner

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once  sync.Once
	facts Facts
}

// NewCache creates a facts cache probing through the given runner.
func NewCache(runner remote.Runner) *Cache {
	return &Cache{
		runner:  runner,
		entries: make(map[string]*entry),
	}
}

// Facts returns the facts for the target, discovering them on the
// first call for its endpoint. Concurrent first calls share a single
// discovery.
func (c *Cache) Facts(ctx context.Context, target fleet.Target) Facts {
	key := target.Identity()

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.facts = c.discover(ctx, target)
		slog.Debug("discovered host facts", "endpoint", key,
			"cores", e.facts.Cores, "memory_mb", e.facts.TotalMemoryMB)
	})
	return e.facts
}

func (c *Cache) discover(ctx context.Context, target fleet.Target) Facts {
	if target.IsLocal() {
		return localFacts(ctx)
	}

	facts := defaultFacts()
	if out, err := c.runner.Output(ctx, target, coresCommand); err == nil {
		facts.Cores = extract.ParseCores(out)
	}
	if out, err := c.runner.Output(ctx, target, memCommand); err == nil {
		facts.TotalMemoryMB = extract.ParseMemTotalKB(out)
	}
	return facts
}

// localFacts reads the local machine directly, skipping the shell
// round-trips.
func localFacts(ctx context.Context) Facts {
	facts := defaultFacts()
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		facts.Cores = n
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		facts.TotalMemoryMB = int(vm.Total / 1024 / 1024)
	}
	return facts
}
