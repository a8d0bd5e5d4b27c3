package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/Hamed-de0/conduit-dashboard/pkg/fleet"
	"github.com/Hamed-de0/conduit-dashboard/pkg/serializer"
	"github.com/urfave/cli/v3"
)

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Run one collection cycle and print the fleet snapshot",
		Description: `Probe every configured host once and write the aggregated fleet
snapshot to stdout or a file.

The cycle also appends a point to the history file, exactly as the
background loop of the serve command would.

# Examples

Smoke-test a fleet definition:
  conduitd collect --targets ./conduit-vps.conf --format table

Capture a snapshot for later comparison:
  conduitd collect --format json --output snapshot.json`,
		Flags: []cli.Flag{
			targetsFlag,
			formatFlag,
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file path (default: stdout)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q (supported: %v)",
					outFormat, serializer.SupportedFormats())
			}

			settings, err := fleet.LoadSettings(cmd.String("config"))
			if err != nil {
				return err
			}
			if v := cmd.String("targets"); v != "" {
				settings.TargetsFile = v
			}

			p := buildPoller(settings)
			if err := p.RunCycle(ctx); err != nil {
				return err
			}

			out := os.Stdout
			if path := cmd.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			return serializer.NewWriter(outFormat, out).Serialize(p.Snapshot())
		},
	}
}
