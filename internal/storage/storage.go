// Package storage provides database storage interfaces and implementations.
package storage

import (
	"context"
	"errors"

	"github.com/logstackhq/logstack/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Repositories wrap it with context; callers branch with errors.Is.
var ErrNotFound = errors.New("not found")

// Storage is the main interface for database operations.
type Storage interface {
	// Open initializes the database connection.
	Open() error
	// Close closes the database connection.
	Close() error
	// Migrate runs database migrations.
	Migrate() error

	// Repository accessors
	Logs() LogRepository
	Triggers() TriggerRepository
	Alerts() AlertRepository
	Users() UserRepository

	// WithinTx runs fn inside a single transaction. The transaction is
	// committed when fn returns nil and rolled back on error or panic.
	// Repositories obtained from tx must not be used after fn returns.
	WithinTx(ctx context.Context, fn func(tx TxRepos) error) error
}

// TxRepos exposes the repositories bound to one open transaction.
type TxRepos interface {
	Logs() LogRepository
	Triggers() TriggerRepository
	Alerts() AlertRepository
}

// LogRepository defines operations for log entry persistence.
type LogRepository interface {
	// Insert persists a new log entry.
	Insert(ctx context.Context, entry *models.LogEntry) error
	// GetByID retrieves a log entry, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.LogEntry, error)
	// Query retrieves entries matching the search criteria, sorted by
	// creation time descending, along with the total match count.
	// page is zero-based; size bounds the returned slice.
	Query(ctx context.Context, search models.LogSearch, page, size int) ([]*models.LogEntry, int64, error)
	// Count returns the number of entries matching the search criteria.
	Count(ctx context.Context, search models.LogSearch) (int64, error)
	// SetArchived toggles the archived flag. Setting the current value
	// again is a no-op success; an unknown id is ErrNotFound.
	SetArchived(ctx context.Context, id string, archived bool) error
}

// TriggerRepository defines operations for trigger persistence.
type TriggerRepository interface {
	Create(ctx context.Context, trigger *models.Trigger) error
	GetByID(ctx context.Context, id string) (*models.Trigger, error)
	Update(ctx context.Context, trigger *models.Trigger) error
	// ListByOwner returns all triggers created by the given user,
	// including inactive and archived ones.
	ListByOwner(ctx context.Context, userID string) ([]*models.Trigger, error)
	// ListActiveByOwner returns the triggers eligible for matching:
	// created by the given user, active and not archived.
	ListActiveByOwner(ctx context.Context, userID string) ([]*models.Trigger, error)
	SetActive(ctx context.Context, id string, active bool) error
	SetArchived(ctx context.Context, id string, archived bool) error
}

// AlertRepository defines operations for alert persistence.
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id string) (*models.Alert, error)
	// ListByOwner returns alerts produced by triggers created by the
	// given user, newest first.
	ListByOwner(ctx context.Context, userID string) ([]*models.Alert, error)
	// SetVisualized marks an alert acknowledged. Acknowledging an
	// already visualized alert is a no-op success.
	SetVisualized(ctx context.Context, id string) error
	SetArchived(ctx context.Context, id string, archived bool) error
}

// UserRepository defines operations for account management.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByAPIKey resolves an ingestion API key to its owning account,
	// or ErrNotFound.
	GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
}
