package remote

import (
	"context"
	"strings"

	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
)

// Runner executes a shell command on a target and returns its trimmed
// standard output. Implementations must honor ctx cancellation and
// return an error only for transport failures; a command that runs but
// exits non-zero yields its output and a nil error, since probe
// commands carry their own shell fallbacks and the extractors treat
// empty output as absent data.
type Runner interface {
	Output(ctx context.Context, target fleet.Target, command string) (string, error)
}

// ShellQuote wraps s in single quotes so it survives the remote shell
// unmodified. Embedded single quotes are closed, escaped and reopened.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
