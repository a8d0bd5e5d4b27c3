package remote

import (
	"context"
	"testing"
	"time"

	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "secret", "'secret'"},
		{"empty", "", "''"},
		{"space", "two words", "'two words'"},
		{"single quote", "it's", `'it'"'"'s'`},
		{"dollar", "$HOME", "'$HOME'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShellQuote(tc.in))
		})
	}
}

func TestLocalRunnerOutput(t *testing.T) {
	r := NewLocalRunner()
	target := fleet.Target{Alias: "self", Addr: fleet.LocalMarker}

	out, err := r.Output(t.Context(), target, "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestLocalRunnerTrimsOutput(t *testing.T) {
	r := NewLocalRunner()
	target := fleet.Target{Alias: "self", Addr: fleet.LocalMarker}

	out, err := r.Output(t.Context(), target, "printf '  padded  \\n'")
	require.NoError(t, err)
	assert.Equal(t, "padded", out)
}

func TestLocalRunnerNonZeroExitReturnsStdout(t *testing.T) {
	r := NewLocalRunner()
	target := fleet.Target{Alias: "self", Addr: fleet.LocalMarker}

	// probe commands rely on fallbacks, so a non-zero exit still
	// yields whatever stdout was written
	out, err := r.Output(t.Context(), target, "echo partial; exit 3")
	require.NoError(t, err)
	assert.Equal(t, "partial", out)
}

func TestLocalRunnerHonorsContext(t *testing.T) {
	r := NewLocalRunner()
	target := fleet.Target{Alias: "self", Addr: fleet.LocalMarker}

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	_, err := r.Output(ctx, target, "sleep 5")
	require.Error(t, err)
}

type recordingRunner struct {
	calls []string
}

func (r *recordingRunner) Output(_ context.Context, target fleet.Target, command string) (string, error) {
	r.calls = append(r.calls, target.Alias+":"+command)
	return "", nil
}

func TestDispatcherRouting(t *testing.T) {
	local := &recordingRunner{}
	sshr := &recordingRunner{}
	d := &Dispatcher{local: local, ssh: sshr}

	_, err := d.Output(t.Context(), fleet.Target{Alias: "here", Addr: fleet.LocalMarker}, "uptime")
	require.NoError(t, err)
	_, err = d.Output(t.Context(), fleet.Target{Alias: "vps1", Addr: "203.0.113.10", Port: "22"}, "uptime")
	require.NoError(t, err)

	assert.Equal(t, []string{"here:uptime"}, local.calls)
	assert.Equal(t, []string{"vps1:uptime"}, sshr.calls)
}

func TestSSHRunnerDialFailure(t *testing.T) {
	r := NewSSHRunner(WithTimeout(200 * time.Millisecond))
	target := fleet.Target{
		Alias: "vps1",
		User:  "root",
		Addr:  "127.0.0.1",
		// nothing listens here
		Port: "1",
	}

	_, err := r.Output(t.Context(), target, "uptime")
	require.Error(t, err)
}
