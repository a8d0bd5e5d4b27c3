package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hamed-de0/conduit-dashboard/pkg/logging"
	"github.com/urfave/cli/v3"
)

const (
	name           = "conduitd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "YAML settings file (optional, defaults apply without it)",
		Sources: cli.EnvVars("CONDUIT_CONFIG"),
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "log level (debug, info, warn, error)",
		Sources: cli.EnvVars("LOG_LEVEL"),
		Value:   "info",
	}

	targetsFlag = &cli.StringFlag{
		Name:  "targets",
		Usage: "pipe-delimited fleet definition file",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   "output format (json, yaml, table)",
		Value:   "json",
	}
)

// rootCmd assembles the full command tree.
func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Fleet health collector and dashboard for conduit tunnel hosts",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Flags: []cli.Flag{
			configFlag,
			logLevelFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			collectCmd(),
		},
	}
}

// Execute runs the CLI. It is called by main and handles SIGINT and
// SIGTERM for graceful shutdown.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
