package storage

import (
	"context"
	"database/sql"
	"fmt"

	// Pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	path string
	db   *sql.DB

	logs     *sqliteLogRepo
	triggers *sqliteTriggerRepo
	alerts   *sqliteAlertRepo
	users    *sqliteUserRepo
}

// NewSQLiteStorage creates a new SQLite storage for the given file path.
func NewSQLiteStorage(path string) *SQLiteStorage {
	return &SQLiteStorage{path: path}
}

// Open initializes the database connection.
func (s *SQLiteStorage) Open() error {
	ctx := context.Background()

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	s.db = db
	s.logs = &sqliteLogRepo{db: db}
	s.triggers = &sqliteTriggerRepo{db: db}
	s.alerts = &sqliteAlertRepo{db: db}
	s.users = &sqliteUserRepo{db: db}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying database connection for health checks.
func (s *SQLiteStorage) DB() *sql.DB {
	return s.db
}

// Migrate runs database migrations.
func (s *SQLiteStorage) Migrate() error {
	return runMigrations(s.db)
}

// Logs returns the log repository.
func (s *SQLiteStorage) Logs() LogRepository {
	return s.logs
}

// Triggers returns the trigger repository.
func (s *SQLiteStorage) Triggers() TriggerRepository {
	return s.triggers
}

// Alerts returns the alert repository.
func (s *SQLiteStorage) Alerts() AlertRepository {
	return s.alerts
}

// Users returns the user repository.
func (s *SQLiteStorage) Users() UserRepository {
	return s.users
}

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx,
// letting repositories run either standalone or inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txRepos binds repositories to one open transaction.
type txRepos struct {
	logs     *sqliteLogRepo
	triggers *sqliteTriggerRepo
	alerts   *sqliteAlertRepo
}

func (t *txRepos) Logs() LogRepository         { return t.logs }
func (t *txRepos) Triggers() TriggerRepository { return t.triggers }
func (t *txRepos) Alerts() AlertRepository     { return t.alerts }

// WithinTx runs fn inside a single transaction, committing on nil and
// rolling back on error or panic.
func (s *SQLiteStorage) WithinTx(ctx context.Context, fn func(tx TxRepos) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	repos := &txRepos{
		logs:     &sqliteLogRepo{db: tx},
		triggers: &sqliteTriggerRepo{db: tx},
		alerts:   &sqliteAlertRepo{db: tx},
	}

	if err := fn(repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
