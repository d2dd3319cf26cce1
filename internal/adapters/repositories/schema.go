package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the reference data and route cache tables. The DDL is portable across
// SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createServicePointsQuery := `
	CREATE TABLE IF NOT EXISTS service_points (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	createDronesQuery := `
	CREATE TABLE IF NOT EXISTS drones (
		id TEXT PRIMARY KEY,
		ordinal INTEGER NOT NULL,
		name TEXT NOT NULL,
		service_point_id INTEGER,
		cooling BOOLEAN NOT NULL,
		heating BOOLEAN NOT NULL,
		capacity DOUBLE PRECISION NOT NULL,
		max_moves INTEGER NOT NULL,
		cost_per_move DOUBLE PRECISION NOT NULL,
		cost_initial DOUBLE PRECISION NOT NULL,
		cost_final DOUBLE PRECISION NOT NULL
	);
	`

	createAvailabilityQuery := `
	CREATE TABLE IF NOT EXISTS drone_availability (
		drone_id TEXT NOT NULL,
		ordinal INTEGER NOT NULL,
		service_point_id INTEGER,
		day_of_week INTEGER NOT NULL,
		from_seconds INTEGER NOT NULL,
		until_seconds INTEGER NOT NULL,
		PRIMARY KEY (drone_id, ordinal)
	);
	`

	createRestrictedAreasQuery := `
	CREATE TABLE IF NOT EXISTS restricted_areas (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		lower_limit DOUBLE PRECISION,
		upper_limit DOUBLE PRECISION,
		vertices TEXT NOT NULL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		leg_key TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_drones_service_point
	ON drones(service_point_id);
	`

	statements := []string{
		createServicePointsQuery,
		createDronesQuery,
		createAvailabilityQuery,
		createRestrictedAreasQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
