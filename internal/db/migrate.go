package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		fetched_at TEXT NOT NULL,
		source     TEXT NOT NULL DEFAULT '',
		task_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_fetched ON snapshots(fetched_at)`,
	`CREATE TABLE IF NOT EXISTS snapshot_tasks (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		task_id     INTEGER NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		assigned_to TEXT,
		PRIMARY KEY (snapshot_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot_time_entries (
		snapshot_id   TEXT NOT NULL,
		task_position INTEGER NOT NULL,
		position      INTEGER NOT NULL,
		entry_id      INTEGER,
		user_id       INTEGER,
		author        TEXT,
		start_time    TEXT,
		end_time      TEXT,
		work_hours    REAL,
		PRIMARY KEY (snapshot_id, task_position, position),
		FOREIGN KEY (snapshot_id, task_position)
			REFERENCES snapshot_tasks(snapshot_id, position) ON DELETE CASCADE
	)`,
	// entry_count arrived after the first release; older stores are backfilled.
	`ALTER TABLE snapshots ADD COLUMN entry_count INTEGER NOT NULL DEFAULT -1`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillEntryCount(db); err != nil {
		return fmt.Errorf("backfilling snapshot entry counts: %w", err)
	}
	return nil
}

// migrateBackfillEntryCount fills entry_count for snapshots stored before the
// column existed (entry_count = -1). Idempotent.
func migrateBackfillEntryCount(db *sql.DB) error {
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `UPDATE snapshots
		SET entry_count = (
			SELECT COUNT(*) FROM snapshot_time_entries e WHERE e.snapshot_id = snapshots.id
		)
		WHERE entry_count < 0`)
	if err != nil {
		return fmt.Errorf("updating entry_count: %w", err)
	}
	return nil
}
