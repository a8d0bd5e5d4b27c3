package poller

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Hamed-de0/conduit-dashboard/pkg/errors"
	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
	"github.com/Hamed-de0/conduit-dashboard/pkg/history"
	"github.com/Hamed-de0/conduit-dashboard/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProber answers from a canned host map; unknown aliases come back
// unreachable, like a host that produced no output at all.
type stubProber struct {
	hosts    map[string]snapshot.Host
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (s *stubProber) Probe(_ context.Context, target fleet.Target) snapshot.Host {
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		seen := s.maxSeen.Load()
		if cur <= seen || s.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if h, ok := s.hosts[target.Alias]; ok {
		return h
	}
	return snapshot.NewHost(target)
}

func targets(aliases ...string) []fleet.Target {
	ts := make([]fleet.Target, 0, len(aliases))
	for _, a := range aliases {
		ts = append(ts, fleet.Target{Alias: a, User: "root", Addr: "203.0.113.10", Port: "22"})
	}
	return ts
}

func onlineHost(alias string, connections int) snapshot.Host {
	h := snapshot.NewHost(fleet.Target{Alias: alias, Addr: "203.0.113.10"})
	h.Online = true
	h.Uptime = "3 days, 2 hours"
	h.ConduitRunning = true
	h.Connections = connections
	return h
}

func newTestPoller(t *testing.T, prober Prober, ts []fleet.Target, opts ...Option) *Poller {
	t.Helper()
	store := history.NewFile(filepath.Join(t.TempDir(), "history.json"))
	return New(prober, StaticTargetSource(ts), store, opts...)
}

func TestSnapshotBeforeFirstCycle(t *testing.T) {
	p := newTestPoller(t, &stubProber{}, nil)

	f := p.Snapshot()
	assert.Equal(t, snapshot.Empty(), f)
	assert.False(t, p.Ready())
}

func TestRunCycleEndToEnd(t *testing.T) {
	// two targets: one healthy, one silent
	prober := &stubProber{hosts: map[string]snapshot.Host{
		"b-healthy": onlineHost("b-healthy", 226),
	}}
	p := newTestPoller(t, prober, targets("z-silent", "b-healthy"))

	require.NoError(t, p.RunCycle(t.Context()))
	require.True(t, p.Ready())

	f := p.Snapshot()
	require.Len(t, f.VPS, 2)

	// alias-sorted regardless of input order
	assert.Equal(t, "b-healthy", f.VPS[0].Alias)
	assert.Equal(t, "z-silent", f.VPS[1].Alias)

	assert.True(t, f.VPS[0].Online)
	assert.Equal(t, 226, f.VPS[0].Connections)

	assert.False(t, f.VPS[1].Online)
	assert.Equal(t, "N/A", f.VPS[1].Uptime)
	assert.Zero(t, f.VPS[1].Connections)

	require.Len(t, f.Conduits, 2)
	assert.Equal(t, 226, f.TotalConnections())

	// exactly one new history point covering both aliases
	s := p.History()
	require.Len(t, s.Data, 1)
	assert.Equal(t, 226, s.Data[0].Connections["b-healthy"])
	assert.Equal(t, 0, s.Data[0].Connections["z-silent"])
	assert.Equal(t, []string{"b-healthy", "z-silent"}, s.Names)
}

func TestRunCycleBoundedParallelism(t *testing.T) {
	prober := &stubProber{}
	p := newTestPoller(t, prober, targets("a", "b", "c", "d", "e", "f", "g", "h"),
		WithWorkers(3))

	require.NoError(t, p.RunCycle(t.Context()))
	assert.LessOrEqual(t, prober.maxSeen.Load(), int32(3))
}

func TestRunCycleTargetSourceFailure(t *testing.T) {
	store := history.NewFile(filepath.Join(t.TempDir(), "history.json"))
	p := New(&stubProber{}, func() ([]fleet.Target, error) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no such file")
	}, store)

	err := p.RunCycle(t.Context())
	require.Error(t, err)
	// the previously published snapshot is untouched
	assert.Equal(t, snapshot.Empty(), p.Snapshot())
	assert.False(t, p.Ready())
}

func TestRunCycleHistoryAccumulates(t *testing.T) {
	prober := &stubProber{hosts: map[string]snapshot.Host{
		"a": onlineHost("a", 5),
	}}
	p := newTestPoller(t, prober, targets("a"))

	require.NoError(t, p.RunCycle(t.Context()))
	require.NoError(t, p.RunCycle(t.Context()))

	s := p.History()
	assert.Len(t, s.Data, 2)
}

func TestRunLoopStopsOnCancel(t *testing.T) {
	p := newTestPoller(t, &stubProber{}, targets("a"),
		WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// let at least the immediate first cycle complete
	require.Eventually(t, p.Ready, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
}

func TestRunCycleSafeSwallowsPanic(t *testing.T) {
	p := newTestPoller(t, panicProber{}, targets("a"))

	assert.NotPanics(t, func() {
		p.runCycleSafe(t.Context())
	})
}

type panicProber struct{}

func (panicProber) Probe(context.Context, fleet.Target) snapshot.Host {
	panic("boom")
}
