package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saviobatista/launch-tracker/internal/db"
	"github.com/saviobatista/launch-tracker/internal/db/migrations"
	"github.com/saviobatista/launch-tracker/internal/spacex"
	"github.com/spf13/cobra"
)

func newArchiveCmd(c *cli) *cobra.Command {
	var (
		filters filterFlags
		list    bool
		show    string
	)

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Resolve launches and store them in Postgres under a new archive run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, argv []string) error {
			var runID uuid.UUID
			if show != "" {
				id, err := uuid.Parse(show)
				if err != nil {
					return fmt.Errorf("invalid --show %q: %w", show, err)
				}
				runID = id
			}
			if err := filters.validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			archive, err := c.openArchive(ctx, c.cfg.DBConnStr)
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			defer archive.Close()

			switch {
			case list:
				runs, err := archive.ListRuns(ctx, 20)
				if err != nil {
					return err
				}
				tw := newTable(cmd.OutOrStdout(), "Run", "Created", "Launches", "Filter")
				for _, r := range runs {
					row(tw, r.ID.String(), r.CreatedAt.In(c.loc).Format(displayTime), fmt.Sprint(r.LaunchCount), r.Filter)
				}
				return tw.Flush()
			case show != "":
				launches, err := archive.ListLaunches(ctx, runID, c.loc)
				if err != nil {
					return err
				}
				return renderLaunches(cmd.OutOrStdout(), launches)
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

				runID, err := archive.CreateRun(ctx, spacex.BuildQuery(filter))
				if err != nil {
					return err
				}
				if err := archive.StoreLaunches(ctx, runID, launches); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Archived %d launches in run %s\n", len(launches), runID)
				return nil
			})
		},
	}

	filters.bind(cmd)
	cmd.Flags().BoolVar(&list, "list", false, "List recent archive runs instead of archiving")
	cmd.Flags().StringVar(&show, "show", "", "Print the launches stored under an archive run ID")
	cmd.MarkFlagsMutuallyExclusive("list", "show")
	return cmd
}

func newMigrateCmd(c *cli) *cobra.Command {
	var rollback bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the archive schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, argv []string) error {
			names, err := c.migrate(cmd.Context(), c.cfg.DBConnStr, rollback)
			if err != nil {
				return err
			}
			verb := "Applied"
			if rollback {
				verb = "Rolled back"
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending migrations")
			}
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s migration: %s\n", verb, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&rollback, "rollback", false, "Rollback the last migration")
	return cmd
}

func runMigrations(ctx context.Context, connStr string, rollback bool) ([]string, error) {
	client, err := db.New(connStr)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		return nil, err
	}

	migrator := migrations.New(client.DB())
	if !rollback {
		return migrator.Migrate(ctx, migrations.All)
	}

	name, err := migrator.Rollback(ctx, migrations.All)
	if errors.Is(err, migrations.ErrNothingToRollback) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}
