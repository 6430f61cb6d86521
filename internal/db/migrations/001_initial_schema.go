package migrations

import "time"

// InitialSchema creates the launch archive tables
var InitialSchema = &Migration{
	ID:   "001_initial_schema",
	Name: "001_initial_schema",
	UpSQL: `
		-- One row per archive invocation
		CREATE TABLE IF NOT EXISTS archive_runs (
			id UUID PRIMARY KEY,
			filter JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS rockets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			active BOOLEAN NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS launchpads (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			region TEXT NOT NULL,
			timezone TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		-- Launch rows are stored per run. Rocket and launchpad rows are shared
		-- and hold the latest values seen by any run.
		CREATE TABLE IF NOT EXISTS archived_launches (
			run_id UUID NOT NULL REFERENCES archive_runs (id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			rocket_id TEXT NOT NULL REFERENCES rockets (id),
			launchpad_id TEXT NOT NULL REFERENCES launchpads (id),
			success BOOLEAN,
			details TEXT,
			date_utc TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (run_id, id)
		);
	`,
	DownSQL: `
		DROP TABLE IF EXISTS archived_launches;
		DROP TABLE IF EXISTS launchpads;
		DROP TABLE IF EXISTS rockets;
		DROP TABLE IF EXISTS archive_runs;
	`,
	CreatedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
}
