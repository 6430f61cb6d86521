package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/saviobatista/launch-tracker/internal/types"
)

// Run is one archive invocation
type Run struct {
	ID          uuid.UUID `db:"id"`
	Filter      string    `db:"filter"`
	CreatedAt   time.Time `db:"created_at"`
	LaunchCount int       `db:"launch_count"`
}

type launchRow struct {
	ID                 string    `db:"id"`
	Success            *bool     `db:"success"`
	Details            *string   `db:"details"`
	DateUTC            time.Time `db:"date_utc"`
	RocketID           string    `db:"rocket_id"`
	RocketName         string    `db:"rocket_name"`
	RocketActive       bool      `db:"rocket_active"`
	RocketType         string    `db:"rocket_type"`
	RocketDescription  string    `db:"rocket_description"`
	LaunchpadID        string    `db:"launchpad_id"`
	LaunchpadName      string    `db:"launchpad_name"`
	LaunchpadRegion    string    `db:"launchpad_region"`
	LaunchpadTimezone  string    `db:"launchpad_timezone"`
	LaunchpadLatitude  float64   `db:"launchpad_latitude"`
	LaunchpadLongitude float64   `db:"launchpad_longitude"`
	LaunchpadStatus    string    `db:"launchpad_status"`
}

func (r *launchRow) launch(loc *time.Location) types.Launch {
	return types.Launch{
		ID: r.ID,
		Rocket: types.Rocket{
			ID:          r.RocketID,
			Name:        r.RocketName,
			Active:      r.RocketActive,
			Type:        r.RocketType,
			Description: r.RocketDescription,
		},
		Launchpad: types.Launchpad{
			ID:        r.LaunchpadID,
			Name:      r.LaunchpadName,
			Region:    r.LaunchpadRegion,
			Timezone:  r.LaunchpadTimezone,
			Latitude:  r.LaunchpadLatitude,
			Longitude: r.LaunchpadLongitude,
			Status:    r.LaunchpadStatus,
		},
		Success: r.Success,
		Details: r.Details,
		Date:    r.DateUTC.In(loc),
	}
}

// Client archives resolved launches in Postgres
type Client struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// New creates a new database client
func New(connStr string) (*Client, error) {
	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection
func NewWithDB(db *sqlx.DB) *Client {
	return &Client{db: db, logger: slog.With("component", "db")}
}

// DB exposes the underlying handle for the migrator
func (c *Client) DB() *sql.DB {
	return c.db.DB
}

// Ping verifies the connection
func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// CreateRun records a new archive run and returns its ID
func (c *Client) CreateRun(ctx context.Context, filter any) (uuid.UUID, error) {
	data, err := json.Marshal(filter)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal filter: %w", err)
	}

	runID := uuid.New()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO archive_runs (id, filter) VALUES ($1, $2)`,
		runID, string(data),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create archive run: %w", err)
	}
	return runID, nil
}

// StoreLaunches stores launches under runID, upserting their rockets and launchpads
func (c *Client) StoreLaunches(ctx context.Context, runID uuid.UUID, launches []types.Launch) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			c.logger.Warn("Failed to rollback transaction", "run_id", runID, "error", err)
		}
	}()

	for i := range launches {
		l := &launches[i]

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO rockets (id, name, active, type, description, updated_at)
			VALUES (:id, :name, :active, :type, :description, NOW())
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, active = EXCLUDED.active,
				type = EXCLUDED.type, description = EXCLUDED.description,
				updated_at = NOW()`, l.Rocket); err != nil {
			return fmt.Errorf("failed to store rocket %s: %w", l.Rocket.ID, err)
		}

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO launchpads (id, name, region, timezone, latitude, longitude, status, updated_at)
			VALUES (:id, :name, :region, :timezone, :latitude, :longitude, :status, NOW())
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, region = EXCLUDED.region,
				timezone = EXCLUDED.timezone, latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude, status = EXCLUDED.status,
				updated_at = NOW()`, l.Launchpad); err != nil {
			return fmt.Errorf("failed to store launchpad %s: %w", l.Launchpad.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO archived_launches (
				run_id, id, position, rocket_id, launchpad_id, success, details, date_utc
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			runID, l.ID, i, l.Rocket.ID, l.Launchpad.ID, l.Success, l.Details, l.Date.UTC(),
		); err != nil {
			return fmt.Errorf("failed to store launch %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive run %s: %w", runID, err)
	}
	c.logger.Debug("Archived launches", "run_id", runID, "count", len(launches))
	return nil
}

const listLaunchesQuery = `
	SELECT l.id, l.success, l.details, l.date_utc,
		r.id AS rocket_id, r.name AS rocket_name, r.active AS rocket_active,
		r.type AS rocket_type, r.description AS rocket_description,
		p.id AS launchpad_id, p.name AS launchpad_name, p.region AS launchpad_region,
		p.timezone AS launchpad_timezone, p.latitude AS launchpad_latitude,
		p.longitude AS launchpad_longitude, p.status AS launchpad_status
	FROM archived_launches l
	JOIN rockets r ON r.id = l.rocket_id
	JOIN launchpads p ON p.id = l.launchpad_id
	WHERE l.run_id = $1
	ORDER BY l.position
`

// ListLaunches returns the launches of a run in their stored order, dated in loc.
// Rocket and launchpad fields are the latest values archived by any run.
func (c *Client) ListLaunches(ctx context.Context, runID uuid.UUID, loc *time.Location) ([]types.Launch, error) {
	if loc == nil {
		loc = time.Local
	}

	var rows []launchRow
	if err := c.db.SelectContext(ctx, &rows, listLaunchesQuery, runID); err != nil {
		return nil, fmt.Errorf("failed to list launches for run %s: %w", runID, err)
	}

	launches := make([]types.Launch, 0, len(rows))
	for i := range rows {
		launches = append(launches, rows[i].launch(loc))
	}
	return launches, nil
}

// ListRuns returns the most recent archive runs first
func (c *Client) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT r.id, r.filter::text AS filter, r.created_at, COUNT(l.id) AS launch_count
		FROM archive_runs r
		LEFT JOIN archived_launches l ON l.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC
		LIMIT $1
	`
	var runs []Run
	if err := c.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list archive runs: %w", err)
	}
	return runs, nil
}
