package remote

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Hamed-de0/conduit-dashboard/pkg/defaults"
	"github.com/Hamed-de0/conduit-dashboard/pkg/errors"
	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
	"golang.org/x/crypto/ssh"
)

// defaultKeyFiles are tried in order for key-based targets, relative
// to the user's .ssh directory.
var defaultKeyFiles = []string{"id_ed25519", "id_rsa", "id_ecdsa"}

// SSHOption configures an SSHRunner.
type SSHOption func(*SSHRunner)

// WithTimeout overrides the per-command transport timeout.
func WithTimeout(d time.Duration) SSHOption {
	return func(r *SSHRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// SSHRunner executes commands over SSH, opening a fresh connection per
// command. Connections are deliberately not pooled; a probe runs a
// handful of commands every cycle and a stale pooled connection to a
// rebooted host would cost more than the handshake saves.
type SSHRunner struct {
	timeout time.Duration
}

// NewSSHRunner creates an SSH runner with the given options.
func NewSSHRunner(opts ...SSHOption) *SSHRunner {
	r := &SSHRunner{
		timeout: defaults.RemoteTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Output connects to the target, runs command and returns its trimmed
// standard output. The whole exchange, dial and handshake included, is
// bounded by the runner timeout and by ctx, whichever ends first. A
// command exiting non-zero is not a transport failure; its stdout is
// returned as-is since probe commands carry their own fallbacks.
func (r *SSHRunner) Output(ctx context.Context, target fleet.Target, command string) (string, error) {
	deadline := time.Now().Add(r.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	config := &ssh.ClientConfig{
		User:            target.User,
		Auth:            authMethods(target),
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // fleet hosts are provisioned by the operator
		Timeout:         time.Until(deadline),
	}

	addr := net.JoinHostPort(target.Addr, target.Port)
	dialer := net.Dialer{Timeout: time.Until(deadline)}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeTransport,
			fmt.Sprintf("failed to dial %s", addr), err)
	}
	defer conn.Close()

	// the deadline bounds the handshake and the command together
	if err := conn.SetDeadline(deadline); err != nil {
		return "", errors.Wrap(errors.ErrCodeTransport,
			fmt.Sprintf("failed to set deadline for %s", addr), err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeTransport,
			fmt.Sprintf("ssh handshake with %s failed", addr), err,
			map[string]any{"user": target.User})
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeTransport,
			fmt.Sprintf("failed to open session on %s", addr), err)
	}
	defer session.Close()

	out, err := session.Output(command)
	if err != nil {
		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			return strings.TrimSpace(string(out)), nil
		}
		return "", errors.Wrap(errors.ErrCodeTransport,
			fmt.Sprintf("command failed on %s", addr), err)
	}

	return strings.TrimSpace(string(out)), nil
}

// authMethods builds the authentication chain for a target. Targets
// with a password use it; the rest fall back to the stock private key
// files under ~/.ssh. Unreadable or unparsable keys are skipped.
func authMethods(target fleet.Target) []ssh.AuthMethod {
	if target.HasPassword() {
		return []ssh.AuthMethod{ssh.Password(target.Password)}
	}

	var signers []ssh.Signer
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	for _, name := range defaultKeyFiles {
		key, err := os.ReadFile(filepath.Join(home, ".ssh", name))
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			continue
		}
		signers = append(signers, signer)
	}
	if len(signers) == 0 {
		return nil
	}
	return []ssh.AuthMethod{ssh.PublicKeys(signers...)}
}
