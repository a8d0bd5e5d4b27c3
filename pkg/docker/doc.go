// Package docker resolves how each fleet host wants its docker CLI
// invoked (directly, via passwordless sudo, or via password sudo) and
// runs docker subcommands with the resolved prefix. Resolution probes
// the host at most once per endpoint for the life of the process.
package docker
