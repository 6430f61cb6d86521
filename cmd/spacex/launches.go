package main

import (
	"context"
	"fmt"
	"time"

	"github.com/saviobatista/launch-tracker/internal/spacex"
	"github.com/saviobatista/launch-tracker/internal/storage"
	"github.com/saviobatista/launch-tracker/internal/types"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// filterFlags are the launch selection flags shared by launches and archive
type filterFlags struct {
	start     string
	end       string
	rocket    string
	launchpad string
	success   bool
	failed    bool
	limit     int
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	flags.StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
	flags.StringVar(&f.rocket, "rocket", "", "Rocket name or ID")
	flags.StringVar(&f.launchpad, "launchpad", "", "Launchpad name or ID")
	flags.BoolVar(&f.success, "success", false, "Only successful launches")
	flags.BoolVar(&f.failed, "failed", false, "Only failed launches (with --success: either)")
	flags.IntVar(&f.limit, "limit", 0, "Maximum number of launches (0 = all)")
}

// validate checks the inputs that need no network access
func (f *filterFlags) validate() error {
	var start, end time.Time
	var err error
	if f.start != "" {
		if start, err = time.Parse(dateLayout, f.start); err != nil {
			return fmt.Errorf("invalid --start %q: expected YYYY-MM-DD", f.start)
		}
	}
	if f.end != "" {
		if end, err = time.Parse(dateLayout, f.end); err != nil {
			return fmt.Errorf("invalid --end %q: expected YYYY-MM-DD", f.end)
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return fmt.Errorf("--start %s is after --end %s", f.start, f.end)
	}
	if f.limit < 0 {
		return fmt.Errorf("invalid --limit %d: must not be negative", f.limit)
	}
	return nil
}

// resolve maps rocket and launchpad names to IDs. Callers run validate first.
func (f *filterFlags) resolve(ctx context.Context, client *spacex.Client) (spacex.LaunchFilter, error) {
	filter := spacex.LaunchFilter{
		Start:   f.start,
		End:     f.end,
		Success: f.success,
		Failed:  f.failed,
		Limit:   f.limit,
	}

	if f.rocket != "" {
		rockets, err := client.GetAllRockets(ctx)
		if err != nil {
			return filter, fmt.Errorf("failed to list rockets: %w", err)
		}
		rocket, ok := spacex.MatchRocket(rockets, f.rocket)
		if !ok {
			return filter, fmt.Errorf("unknown rocket %q", f.rocket)
		}
		filter.Rocket = rocket.ID
	}

	if f.launchpad != "" {
		pads, err := client.GetAllLaunchpads(ctx)
		if err != nil {
			return filter, fmt.Errorf("failed to list launchpads: %w", err)
		}
		pad, ok := spacex.MatchLaunchpad(pads, f.launchpad)
		if !ok {
			return filter, fmt.Errorf("unknown launchpad %q", f.launchpad)
		}
		filter.Site = pad.ID
	}

	return filter, nil
}

func newLaunchesCmd(c *cli) *cobra.Command {
	var (
		filters filterFlags
		publish bool
		export  bool
	)

	cmd := &cobra.Command{
		Use:   "launches",
		Short: "List launches matching the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, argv []string) error {
			if err := filters.validate(); err != nil {
				return err
			}
			return c.withClient(cmd, func(ctx context.Context, client *spacex.Client) error {
				filter, err := filters.resolve(ctx, client)
				if err != nil {
					return err
				}
				launches, err := client.FilterLaunches(ctx, filter)
				if err != nil {
					return err
				}

				if err := renderLaunches(cmd.OutOrStdout(), launches); err != nil {
					return err
				}

				if publish {
					if err := c.publish(launches); err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Published %d launches\n", len(launches))
				}
				if export {
					path, err := c.export(launches)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d launches to %s\n", len(launches), path)
				}
				return nil
			})
		},
	}

	filters.bind(cmd)
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish the launches to the NATS launch feed")
	cmd.Flags().BoolVar(&export, "export", false, "Append the launches to today's JSON-lines export")
	return cmd
}

func (c *cli) publish(launches []types.Launch) error {
	feed, err := c.openFeed(c.cfg.NATSURL)
	if err != nil {
		return err
	}
	defer feed.Close()

	return feed.PublishLaunches(launches)
}

func (c *cli) export(launches []types.Launch) (string, error) {
	store := storage.New(c.cfg.OutputDir)
	path, err := store.WriteLaunches(launches)
	if err != nil {
		return "", err
	}
	if _, err := store.CompressStale(); err != nil {
		// The export itself succeeded
		return path, fmt.Errorf("exported to %s but failed to compress older exports: %w", path, err)
	}
	return path, nil
}

func newLaunchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "launch ID",
		Short: "Show one launch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *spacex.Client) error {
				launch, err := client.GetLaunch(ctx, argv[0])
				if err != nil {
					return err
				}
				return renderLaunch(cmd.OutOrStdout(), launch)
			})
		},
	}
}

func newRocketsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rockets",
		Short: "List rockets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *spacex.Client) error {
				rockets, err := client.GetAllRockets(ctx)
				if err != nil {
					return err
				}
				return renderRockets(cmd.OutOrStdout(), rockets)
			})
		},
	}
}

func newLaunchpadsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "launchpads",
		Short: "List launchpads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *spacex.Client) error {
				pads, err := client.GetAllLaunchpads(ctx)
				if err != nil {
					return err
				}
				return renderLaunchpads(cmd.OutOrStdout(), pads)
			})
		},
	}
}
