package cli

import (
	"context"
	"log/slog"

	"github.com/Hamed-de0/conduit-dashboard/pkg/docker"
	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
	"github.com/Hamed-de0/conduit-dashboard/pkg/history"
	"github.com/Hamed-de0/conduit-dashboard/pkg/hostfacts"
	"github.com/Hamed-de0/conduit-dashboard/pkg/poller"
	"github.com/Hamed-de0/conduit-dashboard/pkg/probe"
	"github.com/Hamed-de0/conduit-dashboard/pkg/remote"
	"github.com/Hamed-de0/conduit-dashboard/pkg/server"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Run the collector and dashboard API",
		Description: `Run the fleet collector and the dashboard API server.

The collector probes every configured host on a fixed period and
publishes an aggregated snapshot. The API serves:

  /api/stats    - the latest fleet snapshot
  /api/history  - the persisted connection history
  /health       - liveness probe
  /ready        - readiness probe (ready after the first cycle)
  /metrics      - Prometheus metrics

The first collection cycle runs synchronously before the server starts
accepting traffic, so /api/stats never serves an empty snapshot to a
client that waited for /ready.`,
		Flags: []cli.Flag{
			targetsFlag,
			&cli.StringFlag{
				Name:  "history",
				Usage: "history file path",
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "dashboard API port",
				Sources: cli.EnvVars("PORT"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, err := fleet.LoadSettings(cmd.String("config"))
			if err != nil {
				return err
			}
			if v := cmd.String("targets"); v != "" {
				settings.TargetsFile = v
			}
			if v := cmd.String("history"); v != "" {
				settings.HistoryFile = v
			}
			if v := cmd.Int("port"); v > 0 {
				settings.Port = int(v)
			}

			p := buildPoller(settings)

			// initial synchronous cycle so the API starts populated
			if err := p.RunCycle(ctx); err != nil {
				slog.Error("initial collection cycle failed", "error", err)
			}

			cfg := server.NewConfig()
			cfg.Name = name
			cfg.Version = version
			cfg.Port = settings.Port
			srv := server.New(cfg, p)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				p.Run(gctx)
				return nil
			})
			g.Go(func() error {
				return srv.Start(gctx)
			})

			if err := g.Wait(); err != nil {
				return err
			}
			slog.Info("server stopped gracefully")
			return nil
		},
	}
}

// buildPoller wires the collection stack from settings.
func buildPoller(settings fleet.Settings) *poller.Poller {
	runner := remote.NewDispatcher(remote.WithTimeout(settings.RemoteTimeout))
	prober := probe.New(runner, docker.NewResolver(runner), hostfacts.NewCache(runner))
	store := history.NewFile(settings.HistoryFile, history.WithRetention(settings.Retention))

	return poller.New(prober,
		poller.FileTargetSource(settings.TargetsFile),
		store,
		poller.WithInterval(settings.RefreshInterval),
		poller.WithWorkers(settings.Workers),
	)
}
