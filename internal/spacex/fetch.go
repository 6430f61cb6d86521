package spacex

import (
	"context"
	"net/url"
	"sort"

	"github.com/saviobatista/launch-tracker/internal/types"
)

// GetLaunchpad fetches one launchpad by ID
func (c *Client) GetLaunchpad(ctx context.Context, id string) (*types.Launchpad, error) {
	body, err := c.transport.Get(ctx, "/launchpads/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var doc launchpadDoc
	if err := decode("launchpad", body, &doc); err != nil {
		return nil, err
	}
	pad, err := doc.toLaunchpad("launchpad")
	if err != nil {
		return nil, err
	}
	return &pad, nil
}

// GetAllLaunchpads fetches every launchpad in service order
func (c *Client) GetAllLaunchpads(ctx context.Context) ([]types.Launchpad, error) {
	body, err := c.transport.Get(ctx, "/launchpads")
	if err != nil {
		return nil, err
	}

	var docs []launchpadDoc
	if err := decode("launchpads", body, &docs); err != nil {
		return nil, err
	}

	pads := make([]types.Launchpad, 0, len(docs))
	for i := range docs {
		pad, err := docs[i].toLaunchpad(indexed("launchpads", i))
		if err != nil {
			return nil, err
		}
		pads = append(pads, pad)
	}

	c.logger.Debug("Fetched launchpads", "count", len(pads))
	return pads, nil
}

// GetRocket fetches one rocket by ID
func (c *Client) GetRocket(ctx context.Context, id string) (*types.Rocket, error) {
	body, err := c.transport.Get(ctx, "/rockets/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var doc rocketDoc
	if err := decode("rocket", body, &doc); err != nil {
		return nil, err
	}
	rocket, err := doc.toRocket("rocket")
	if err != nil {
		return nil, err
	}
	return &rocket, nil
}

// GetAllRockets fetches every rocket, sorted by name
func (c *Client) GetAllRockets(ctx context.Context) ([]types.Rocket, error) {
	body, err := c.transport.Get(ctx, "/rockets")
	if err != nil {
		return nil, err
	}

	var docs []rocketDoc
	if err := decode("rockets", body, &docs); err != nil {
		return nil, err
	}

	rockets := make([]types.Rocket, 0, len(docs))
	for i := range docs {
		rocket, err := docs[i].toRocket(indexed("rockets", i))
		if err != nil {
			return nil, err
		}
		rockets = append(rockets, rocket)
	}

	sort.SliceStable(rockets, func(i, j int) bool {
		return rockets[i].Name < rockets[j].Name
	})

	c.logger.Debug("Fetched rockets", "count", len(rockets))
	return rockets, nil
}

// GetLaunch fetches one launch by ID with its rocket and launchpad resolved
func (c *Client) GetLaunch(ctx context.Context, id string) (*types.Launch, error) {
	body, err := c.transport.Get(ctx, "/launches/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var doc launchDoc
	if err := decode("launch", body, &doc); err != nil {
		return nil, err
	}
	return c.joinLaunch(ctx, &doc, "launch")
}
