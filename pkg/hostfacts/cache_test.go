package hostfacts

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Hamed-de0/conduit-dashboard/pkg/errors"
	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
	"github.com/stretchr/testify/assert"
)

type stubRunner struct {
	calls   atomic.Int32
	respond func(command string) (string, error)
}

func (s *stubRunner) Output(_ context.Context, _ fleet.Target, command string) (string, error) {
	s.calls.Add(1)
	return s.respond(command)
}

func target() fleet.Target {
	return fleet.Target{Alias: "vps1", User: "root", Addr: "203.0.113.10", Port: "22"}
}

func TestFactsDiscovery(t *testing.T) {
	runner := &stubRunner{respond: func(command string) (string, error) {
		if strings.Contains(command, "nproc") {
			return "4", nil
		}
		return "2016564", nil
	}}
	c := NewCache(runner)

	facts := c.Facts(t.Context(), target())
	assert.Equal(t, 4, facts.Cores)
	assert.Equal(t, 1969, facts.TotalMemoryMB)
}

func TestFactsDefaultsOnFailure(t *testing.T) {
	runner := &stubRunner{respond: func(string) (string, error) {
		return "", errors.New(errors.ErrCodeTransport, "connection refused")
	}}
	c := NewCache(runner)

	facts := c.Facts(t.Context(), target())
	assert.Equal(t, 1, facts.Cores)
	assert.Equal(t, 0, facts.TotalMemoryMB)
}

func TestFactsDefaultsOnGarbageOutput(t *testing.T) {
	runner := &stubRunner{respond: func(string) (string, error) {
		return "sh: command not found", nil
	}}
	c := NewCache(runner)

	facts := c.Facts(t.Context(), target())
	assert.Equal(t, 1, facts.Cores)
	assert.Equal(t, 0, facts.TotalMemoryMB)
}

func TestFactsCachedPerEndpoint(t *testing.T) {
	runner := &stubRunner{respond: func(string) (string, error) { return "4", nil }}
	c := NewCache(runner)

	_ = c.Facts(t.Context(), target())
	first := runner.calls.Load()
	_ = c.Facts(t.Context(), target())
	assert.Equal(t, first, runner.calls.Load())

	other := target()
	other.Port = "2222"
	_ = c.Facts(t.Context(), other)
	assert.Greater(t, runner.calls.Load(), first)
}

func TestFactsConcurrentDiscoveryOnce(t *testing.T) {
	runner := &stubRunner{respond: func(command string) (string, error) {
		if strings.Contains(command, "nproc") {
			return "8", nil
		}
		return "4033128", nil
	}}
	c := NewCache(runner)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			facts := c.Facts(context.Background(), target())
			assert.Equal(t, 8, facts.Cores)
		}()
	}
	wg.Wait()

	// one discovery means exactly two remote calls
	assert.Equal(t, int32(2), runner.calls.Load())
}

func TestFactsLocalTargetSkipsRunner(t *testing.T) {
	runner := &stubRunner{respond: func(string) (string, error) { return "4", nil }}
	c := NewCache(runner)

	facts := c.Facts(t.Context(), fleet.Target{Alias: "self", User: "me", Addr: fleet.LocalMarker, Port: "22"})
	assert.Equal(t, int32(0), runner.calls.Load())
	assert.GreaterOrEqual(t, facts.Cores, 1)
}
