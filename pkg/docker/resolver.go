package docker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
	"github.com/Hamed-de0/conduit-dashboard/pkg/remote"
)

// Strategy is the way docker is invoked on a host.
type Strategy int

const (
	// StrategyDirect runs docker as the login user.
	StrategyDirect Strategy = iota
	// StrategyElevated runs docker through passwordless sudo.
	StrategyElevated
	// StrategyElevatedPassword pipes the target password into sudo -S.
	StrategyElevatedPassword
)

// String returns the strategy name for logging.
func (s Strategy) String() string {
	switch s {
	case StrategyElevated:
		return "elevated"
	case StrategyElevatedPassword:
		return "elevated-password"
	default:
		return "direct"
	}
}

// probeSuffix distinguishes a privilege failure from a dead transport:
// the command itself always exits zero and answers in-band.
const probeSuffix = "docker info >/dev/null 2>&1 && echo OK || echo FAIL"

// Resolver determines and caches the docker invocation strategy per
// endpoint. The cache key is the target identity (user@addr:port), so
// two aliases pointing at the same endpoint share one resolution.
type Resolver struct {
	runner remote.Runner

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once     sync.Once
	strategy Strategy
}

// NewResolver creates a Resolver probing through the given runner.
func NewResolver(runner remote.Runner) *Resolver {
	return &Resolver{
		runner:  runner,
		entries: make(map[string]*entry),
	}
}

// Resolve returns the docker strategy for the target, probing the host
// on the first call for its endpoint and answering from cache after
// that. Concurrent callers for the same endpoint block on one shared
// probe. A host where every variant fails resolves to StrategyDirect
// and stays resolved; per-command errors will surface the real problem.
func (r *Resolver) Resolve(ctx context.Context, target fleet.Target) Strategy {
	key := target.Identity()

	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		e = &entry{}
		r.entries[key] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.strategy = r.probe(ctx, target)
		slog.Debug("resolved docker strategy",
			"endpoint", key, "strategy", e.strategy.String())
	})
	return e.strategy
}

// outcome is the result of one cascade attempt.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeContinue
	outcomeAbort
)

// probe tries the invocation variants in order of least privilege and
// stops at the first success. A dead transport aborts the cascade;
// exhausting it falls back to StrategyDirect so later commands fail
// visibly instead of the resolver failing.
func (r *Resolver) probe(ctx context.Context, target fleet.Target) Strategy {
	candidates := []Strategy{StrategyDirect, StrategyElevated}
	if target.HasPassword() {
		candidates = append(candidates, StrategyElevatedPassword)
	}

	for _, s := range candidates {
		switch r.attempt(ctx, target, s) {
		case outcomeSuccess:
			return s
		case outcomeAbort:
			return StrategyDirect
		case outcomeContinue:
		}
	}
	return StrategyDirect
}

// attempt probes one strategy variant. The probe command answers
// in-band and always exits zero, so an error means the transport
// itself is gone.
func (r *Resolver) attempt(ctx context.Context, target fleet.Target, s Strategy) outcome {
	out, err := r.runner.Output(ctx, target, s.prefix(target)+probeSuffix)
	switch {
	case err != nil:
		return outcomeAbort
	case out == "OK":
		return outcomeSuccess
	default:
		return outcomeContinue
	}
}

// prefix returns the shell text placed before "docker" for the
// strategy.
func (s Strategy) prefix(target fleet.Target) string {
	switch s {
	case StrategyElevated:
		return "sudo -n "
	case StrategyElevatedPassword:
		return "echo " + remote.ShellQuote(target.Password) + " | sudo -S -p '' "
	default:
		return ""
	}
}

// Command runs a docker subcommand on the target with its resolved
// strategy prefix and returns the trimmed output.
func (r *Resolver) Command(ctx context.Context, target fleet.Target, args string) (string, error) {
	s := r.Resolve(ctx, target)
	return r.runner.Output(ctx, target, s.prefix(target)+"docker "+args)
}
