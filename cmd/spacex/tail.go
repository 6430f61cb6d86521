package main

import (
	"fmt"
	"sync"

	"github.com/saviobatista/launch-tracker/internal/types"
	"github.com/spf13/cobra"
)

func newTailCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tail",
		Short: "Print launches as they are published to the launch feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, argv []string) error {
			feed, err := c.openFeed(c.cfg.NATSURL)
			if err != nil {
				return err
			}
			defer feed.Close()

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			err = feed.SubscribeLaunches(func(l *types.Launch) {
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(out, "%s  %s  %s  %s  %s\n",
					l.ID, l.Date.In(c.loc).Format(displayTime), l.Rocket.Name, l.Launchpad.Name, l.Outcome())
			})
			if err != nil {
				return err
			}

			<-cmd.Context().Done()
			return nil
		},
	}
}
