package nats

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/saviobatista/launch-tracker/internal/types"
)

const (
	StreamLaunches          = "LAUNCHES"
	SubjectLaunchesResolved = "launches.resolved"
)

// Client publishes and consumes resolved launches over NATS JetStream
type Client struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// New creates a new NATS client
func New(url string) (*Client, error) {
	nc, err := nats.Connect(url, nats.Name("launch-tracker"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	// Create stream if it doesn't exist
	_, err = js.AddStream(&nats.StreamConfig{
		Name:     StreamLaunches,
		Subjects: []string{SubjectLaunchesResolved},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil && !strings.Contains(err.Error(), "stream name already in use") {
		nc.Close()
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	return &Client{
		conn: nc,
		js:   js,
	}, nil
}

// PublishLaunch publishes a resolved launch
func (c *Client) PublishLaunch(launch *types.Launch) error {
	data, err := json.Marshal(launch)
	if err != nil {
		return fmt.Errorf("failed to marshal launch: %w", err)
	}

	_, err = c.js.Publish(SubjectLaunchesResolved, data)
	if err != nil {
		return fmt.Errorf("failed to publish launch %s: %w", launch.ID, err)
	}

	return nil
}

// PublishLaunches publishes every launch in order, stopping at the first failure
func (c *Client) PublishLaunches(launches []types.Launch) error {
	for i := range launches {
		if err := c.PublishLaunch(&launches[i]); err != nil {
			return err
		}
	}
	return nil
}

// SubscribeLaunches subscribes to resolved launches
func (c *Client) SubscribeLaunches(handler func(*types.Launch)) error {
	_, err := c.js.Subscribe(SubjectLaunchesResolved, launchHandler(handler), nats.DeliverNew())
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	return nil
}

func launchHandler(handler func(*types.Launch)) nats.MsgHandler {
	logger := slog.With("component", "nats")
	return func(msg *nats.Msg) {
		var launch types.Launch
		if err := json.Unmarshal(msg.Data, &launch); err != nil {
			logger.Error("Error unmarshaling launch", "subject", msg.Subject, "error", err)
			return
		}
		handler(&launch)
	}
}

// Close closes the NATS connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
