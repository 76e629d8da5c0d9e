package database

import (
	"database/sql"
	"fmt"
	"log"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS operations (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		end_date TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'ACTIVE'
	)`,
	`CREATE TABLE IF NOT EXISTS missions (
		id BIGSERIAL PRIMARY KEY,
		operation_id BIGINT REFERENCES operations(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id BIGSERIAL PRIMARY KEY,
		mission_id BIGINT NOT NULL REFERENCES missions(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		difficulty INT NOT NULL DEFAULT 3,
		completed BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE INDEX IF NOT EXISTS idx_missions_created_at ON missions (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_mission_id ON tasks (mission_id)`,
}

// RunMigrations creates the schema if it does not exist yet. Statements are
// idempotent so re-running on startup is safe.
func RunMigrations(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	log.Println("Database migrations applied")
	return nil
}
