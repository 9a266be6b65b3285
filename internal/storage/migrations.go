package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database migration.
type Migration struct {
	Version int
	Name    string
	Up      string
}

// migrations holds all database migrations in order.
//
// Timestamps are stored as INTEGER Unix nanoseconds (UTC) so that range
// comparisons are exact and independent of driver time parsing.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up: `
			-- Users table
			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				api_key TEXT UNIQUE NOT NULL,
				role TEXT NOT NULL DEFAULT 'operator',
				created_at INTEGER NOT NULL
			);

			-- Log entries table
			CREATE TABLE IF NOT EXISTS logs (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				app_name TEXT NOT NULL,
				host TEXT NOT NULL,
				ip TEXT NOT NULL,
				environment TEXT NOT NULL,
				level TEXT NOT NULL,
				content TEXT NOT NULL,
				created_at INTEGER NOT NULL,
				archived INTEGER NOT NULL DEFAULT 0,
				user_id TEXT NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(id)
			);

			-- Triggers table
			CREATE TABLE IF NOT EXISTS triggers (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				message TEXT NOT NULL,
				email TEXT NOT NULL,
				filter_json TEXT NOT NULL,
				active INTEGER NOT NULL DEFAULT 1,
				archived INTEGER NOT NULL DEFAULT 0,
				created_by TEXT NOT NULL,
				created_at INTEGER NOT NULL,
				FOREIGN KEY (created_by) REFERENCES users(id)
			);

			-- Alerts table. Trigger name, message and email are
			-- snapshots taken at match time.
			CREATE TABLE IF NOT EXISTS alerts (
				id TEXT PRIMARY KEY,
				trigger_id TEXT NOT NULL,
				trigger_name TEXT NOT NULL,
				message TEXT NOT NULL,
				email TEXT NOT NULL,
				log_id TEXT NOT NULL,
				visualized INTEGER NOT NULL DEFAULT 0,
				archived INTEGER NOT NULL DEFAULT 0,
				created_at INTEGER NOT NULL,
				FOREIGN KEY (trigger_id) REFERENCES triggers(id),
				FOREIGN KEY (log_id) REFERENCES logs(id)
			);

			-- Indexes
			CREATE INDEX IF NOT EXISTS idx_users_api_key ON users(api_key);
			CREATE INDEX IF NOT EXISTS idx_logs_user_created ON logs(user_id, created_at);
			CREATE INDEX IF NOT EXISTS idx_logs_level ON logs(level);
			CREATE INDEX IF NOT EXISTS idx_logs_environment ON logs(environment);
			CREATE INDEX IF NOT EXISTS idx_triggers_owner ON triggers(created_by, active, archived);
			CREATE INDEX IF NOT EXISTS idx_alerts_trigger ON alerts(trigger_id);
			CREATE INDEX IF NOT EXISTS idx_alerts_log ON alerts(log_id);
		`,
	},
}

// runMigrations applies all pending migrations.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d (%s): %w", m.Version, m.Name, err)
		}

		_, err = tx.Exec(
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Name, time.Now().UnixNano(),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
