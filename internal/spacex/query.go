package spacex

import (
	"context"

	"github.com/saviobatista/launch-tracker/internal/types"
	"golang.org/x/sync/errgroup"
)

const launchQueryPath = "/launches/query"

// LaunchFilter holds the optional criteria of a launch query. Start and End
// are inclusive YYYY-MM-DD dates. Setting exactly one of Success and Failed
// restricts the outcome; setting neither or both selects either outcome.
type LaunchFilter struct {
	Start   string
	End     string
	Rocket  string
	Site    string
	Success bool
	Failed  bool
	Limit   int
}

// QueryRequest is the body of a batch query
type QueryRequest struct {
	Query   map[string]any `json:"query"`
	Options map[string]any `json:"options"`
}

// BuildQuery translates f into the service's query dialect
func BuildQuery(f LaunchFilter) QueryRequest {
	query := map[string]any{}

	date := map[string]any{}
	if f.Start != "" {
		date["$gte"] = f.Start + "T00:00:00.000Z"
	}
	if f.End != "" {
		date["$lte"] = f.End + "T23:59:59.999Z"
	}
	if len(date) > 0 {
		query["date_utc"] = date
	}

	if f.Rocket != "" {
		query["rocket"] = f.Rocket
	}
	if f.Site != "" {
		query["launchpad"] = f.Site
	}

	switch {
	case f.Success && !f.Failed:
		query["success"] = true
	case f.Failed && !f.Success:
		query["success"] = false
	}

	options := map[string]any{}
	if f.Limit > 0 {
		options["limit"] = f.Limit
	} else {
		options["pagination"] = false
	}

	return QueryRequest{Query: query, Options: options}
}

// FilterLaunches runs one batch query and resolves every returned launch.
// The result keeps the service order; any failure fails the whole call.
func (c *Client) FilterLaunches(ctx context.Context, f LaunchFilter) ([]types.Launch, error) {
	req := BuildQuery(f)

	body, err := c.transport.Post(ctx, launchQueryPath, req)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := decode("launch query", body, &resp); err != nil {
		return nil, err
	}
	if resp.Docs == nil {
		return nil, &MalformedError{Entity: "launch query", Missing: []string{"docs"}}
	}
	docs := *resp.Docs

	c.logger.Debug("Launch query returned", "docs", len(docs), "query", req.Query)

	launches := make([]types.Launch, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := range docs {
		i := i
		g.Go(func() error {
			launch, err := c.joinLaunch(gctx, &docs[i], indexed("launches", i))
			if err != nil {
				return err
			}
			launches[i] = *launch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return launches, nil
}
