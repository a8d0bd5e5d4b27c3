package remote

import (
	"context"
	"os/exec"
	"strings"

	"github.com/Hamed-de0/conduit-dashboard/pkg/errors"
	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
)

// LocalRunner executes commands through the local shell. It serves
// targets whose address is the local marker, so the machine running
// the collector can be monitored alongside the remote fleet.
type LocalRunner struct{}

// NewLocalRunner creates a local shell runner.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Output runs command via sh -c and returns its trimmed standard
// output. Non-zero exits return whatever stdout was produced, matching
// the SSH runner contract.
func (r *LocalRunner) Output(ctx context.Context, target fleet.Target, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	out, err := cmd.Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return strings.TrimSpace(string(out)), nil
		}
		return "", errors.Wrap(errors.ErrCodeTransport, "local command failed", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Dispatcher routes each command to the local or SSH runner based on
// the target address.
type Dispatcher struct {
	local Runner
	ssh   Runner
}

// NewDispatcher creates a dispatcher over the given SSH options.
func NewDispatcher(opts ...SSHOption) *Dispatcher {
	return &Dispatcher{
		local: NewLocalRunner(),
		ssh:   NewSSHRunner(opts...),
	}
}

// Output implements Runner.
func (d *Dispatcher) Output(ctx context.Context, target fleet.Target, command string) (string, error) {
	if target.IsLocal() {
		return d.local.Output(ctx, target, command)
	}
	return d.ssh.Output(ctx, target, command)
}
