package spacex

import (
	"context"

	"github.com/saviobatista/launch-tracker/internal/types"
	"golang.org/x/sync/errgroup"
)

// joinLaunch resolves the rocket and launchpad referenced by doc. Either both
// resolve and a complete launch is returned, or the join fails as a whole.
func (c *Client) joinLaunch(ctx context.Context, doc *launchDoc, entity string) (*types.Launch, error) {
	if err := doc.validate(entity); err != nil {
		return nil, err
	}
	launchID := *doc.ID

	if doc.Rocket == nil {
		return nil, &IntegrityError{LaunchID: launchID, Kind: "rocket"}
	}
	if doc.Launchpad == nil {
		return nil, &IntegrityError{LaunchID: launchID, Kind: "launchpad"}
	}

	date, err := UTCToLocal(*doc.DateUTC, c.loc)
	if err != nil {
		return nil, &MalformedError{Entity: entity, Err: err}
	}

	var (
		rocket *types.Rocket
		pad    *types.Launchpad
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := c.GetRocket(gctx, *doc.Rocket)
		if err != nil {
			return &IntegrityError{LaunchID: launchID, Kind: "rocket", RefID: *doc.Rocket, Err: err}
		}
		rocket = r
		return nil
	})
	g.Go(func() error {
		p, err := c.GetLaunchpad(gctx, *doc.Launchpad)
		if err != nil {
			return &IntegrityError{LaunchID: launchID, Kind: "launchpad", RefID: *doc.Launchpad, Err: err}
		}
		pad = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.Launch{
		ID:        launchID,
		Rocket:    *rocket,
		Launchpad: *pad,
		Success:   doc.Success,
		Details:   doc.Details,
		Date:      date,
	}, nil
}
