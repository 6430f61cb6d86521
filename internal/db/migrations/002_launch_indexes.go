package migrations

import "time"

// LaunchIndexes adds the lookup indexes used when listing archived launches and runs
var LaunchIndexes = &Migration{
	ID:   "002_launch_indexes",
	Name: "002_launch_indexes",
	UpSQL: `
	CREATE INDEX IF NOT EXISTS idx_archived_launches_date_utc ON archived_launches (date_utc);
	CREATE INDEX IF NOT EXISTS idx_archived_launches_rocket_id ON archived_launches (rocket_id);
	CREATE INDEX IF NOT EXISTS idx_archived_launches_launchpad_id ON archived_launches (launchpad_id);
	CREATE INDEX IF NOT EXISTS idx_archive_runs_created_at ON archive_runs (created_at DESC);
	`,
	DownSQL: `
	DROP INDEX IF EXISTS idx_archive_runs_created_at;
	DROP INDEX IF EXISTS idx_archived_launches_launchpad_id;
	DROP INDEX IF EXISTS idx_archived_launches_rocket_id;
	DROP INDEX IF EXISTS idx_archived_launches_date_utc;
	`,
	CreatedAt: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
}

// All lists every archive migration in the order it must be applied
var All = []*Migration{
	InitialSchema,
	LaunchIndexes,
}
