package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/saviobatista/launch-tracker/internal/cache"
	"github.com/saviobatista/launch-tracker/internal/config"
	"github.com/saviobatista/launch-tracker/internal/db"
	"github.com/saviobatista/launch-tracker/internal/logger"
	"github.com/saviobatista/launch-tracker/internal/nats"
	"github.com/saviobatista/launch-tracker/internal/redis"
	"github.com/saviobatista/launch-tracker/internal/spacex"
	"github.com/saviobatista/launch-tracker/internal/stats"
	"github.com/saviobatista/launch-tracker/internal/transport"
	"github.com/saviobatista/launch-tracker/internal/types"
	"github.com/spf13/cobra"
)

// Archive interface for testability
type Archive interface {
	CreateRun(ctx context.Context, filter any) (uuid.UUID, error)
	StoreLaunches(ctx context.Context, runID uuid.UUID, launches []types.Launch) error
	ListLaunches(ctx context.Context, runID uuid.UUID, loc *time.Location) ([]types.Launch, error)
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
	Close() error
}

// Feed interface for testability
type Feed interface {
	PublishLaunches(launches []types.Launch) error
	SubscribeLaunches(handler func(*types.Launch)) error
	Close()
}

// cli holds the state shared by every subcommand
type cli struct {
	cfg      *config.Config
	logLevel string
	tz       string
	stats    bool
	loc      *time.Location

	openArchive func(ctx context.Context, connStr string) (Archive, error)
	openFeed    func(url string) (Feed, error)
	migrate     func(ctx context.Context, connStr string, rollback bool) ([]string, error)
}

func newCLI() *cli {
	return &cli{
		openArchive: func(ctx context.Context, connStr string) (Archive, error) {
			client, err := db.New(connStr)
			if err != nil {
				return nil, err
			}
			if err := client.Ping(ctx); err != nil {
				_ = client.Close()
				return nil, err
			}
			return client, nil
		},
		openFeed: func(url string) (Feed, error) {
			client, err := nats.New(url)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		migrate: runMigrations,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "spacex",
		Short:         "SpaceX launch tracker",
		Long:          "Query SpaceX launches, rockets and launchpads, and publish, archive or export the resolved launches",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, argv []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(
		&c.stats,
		"stats",
		false,
		"Print request statistics on exit",
	)
	flags.StringVar(
		&c.logLevel,
		"log-level",
		"",
		"Log level (debug, info, warn, error); overrides LOG_LEVEL",
	)
	flags.StringVar(
		&c.tz,
		"tz",
		"",
		"IANA time zone launch dates are shown in (default: local)",
	)

	root.AddCommand(
		newLaunchesCmd(c),
		newLaunchCmd(c),
		newRocketsCmd(c),
		newLaunchpadsCmd(c),
		newArchiveCmd(c),
		newMigrateCmd(c),
		newTailCmd(c),
	)
	return root
}

// setup loads configuration and installs the logger
func (c *cli) setup(logOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	logger.Init(cfg, logOut)
	c.cfg = cfg

	c.loc = time.Local
	if c.tz != "" {
		loc, err := time.LoadLocation(c.tz)
		if err != nil {
			return fmt.Errorf("invalid --tz %q: %w", c.tz, err)
		}
		c.loc = loc
	}
	return nil
}

// withClient builds the API client for the duration of fn and releases it afterwards
func (c *cli) withClient(cmd *cobra.Command, fn func(ctx context.Context, client *spacex.Client) error) error {
	var respCache transport.Cache
	if c.cfg.RedisAddr != "" {
		rc, err := redis.New(c.cfg.RedisAddr)
		if err != nil {
			slog.Warn("Redis unavailable, using in-memory cache", "addr", c.cfg.RedisAddr, "error", err)
			respCache = cache.NewMemory()
		} else {
			respCache = rc
		}
	} else {
		respCache = cache.NewMemory()
	}

	st := stats.New()
	tr := transport.New(transport.Config{
		BaseURL:   c.cfg.BaseURL,
		Timeout:   c.cfg.Timeout,
		RateLimit: c.cfg.RateLimit,
		RateBurst: c.cfg.RateBurst,
		CacheTTL:  c.cfg.CacheTTL,
	}, transport.WithCache(respCache), transport.WithStats(st))
	defer func() {
		if err := tr.Close(); err != nil {
			slog.Warn("Failed to close transport", "error", err)
		}
		if c.stats {
			fmt.Fprintln(cmd.ErrOrStderr(), st.String())
		}
	}()

	client := spacex.New(tr,
		spacex.WithLocation(c.loc),
		spacex.WithConcurrency(c.cfg.JoinConcurrency),
	)
	return fn(cmd.Context(), client)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newCLI()).ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
