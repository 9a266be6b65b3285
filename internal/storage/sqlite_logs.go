package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/logstackhq/logstack/internal/models"
)

type sqliteLogRepo struct {
	db dbtx
}

const logColumns = "id, title, app_name, host, ip, environment, level, content, created_at, archived, user_id"

func (r *sqliteLogRepo) Insert(ctx context.Context, entry *models.LogEntry) error {
	query := `
		INSERT INTO logs (` + logColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Title, entry.AppName, entry.Host, entry.IP,
		entry.Environment, entry.Level, entry.Content,
		entry.CreatedAt.UnixNano(), boolToInt(entry.Archived), entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

func (r *sqliteLogRepo) GetByID(ctx context.Context, id string) (*models.LogEntry, error) {
	query := "SELECT " + logColumns + " FROM logs WHERE id = ?"
	entry, err := scanLog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("log %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get log by id: %w", err)
	}
	return entry, nil
}

func (r *sqliteLogRepo) Query(ctx context.Context, search models.LogSearch, page, size int) ([]*models.LogEntry, int64, error) {
	total, err := r.Count(ctx, search)
	if err != nil {
		return nil, 0, err
	}

	query, args := buildLogQuery(search, false)
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, size, page*size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.LogEntry
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate logs: %w", err)
	}
	return entries, total, nil
}

func (r *sqliteLogRepo) Count(ctx context.Context, search models.LogSearch) (int64, error) {
	query, args := buildLogQuery(search, true)
	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count logs: %w", err)
	}
	return count, nil
}

func (r *sqliteLogRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE logs SET archived = ? WHERE id = ?", boolToInt(archived), id)
	if err != nil {
		return fmt.Errorf("set log archived: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("log %s: %w", id, ErrNotFound)
	}
	return nil
}

// buildLogQuery translates LogSearch criteria into a WHERE clause.
// Text criteria become case-insensitive LIKE containment, enum criteria
// exact equality, timestamp bounds inclusive comparisons.
func buildLogQuery(search models.LogSearch, countOnly bool) (string, []any) {
	var sb strings.Builder
	var args []any

	if countOnly {
		sb.WriteString("SELECT COUNT(*) FROM logs")
	} else {
		sb.WriteString("SELECT " + logColumns + " FROM logs")
	}

	var conditions []string

	addLike := func(column, value string) {
		if value == "" {
			return
		}
		conditions = append(conditions, "lower("+column+") LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(strings.ToLower(value))+"%")
	}

	addLike("title", search.Title)
	addLike("app_name", search.AppName)
	addLike("host", search.Host)
	addLike("ip", search.IP)
	addLike("content", search.Content)

	if search.Environment != "" {
		conditions = append(conditions, "environment = ?")
		args = append(args, string(search.Environment))
	}
	if search.Level != "" {
		conditions = append(conditions, "level = ?")
		args = append(args, string(search.Level))
	}
	if !search.StartTimestamp.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, search.StartTimestamp.UnixNano())
	}
	if !search.EndTimestamp.IsZero() {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, search.EndTimestamp.UnixNano())
	}
	if search.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, search.UserID)
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	return sb.String(), args
}

// escapeLike neutralizes LIKE metacharacters so criteria match as
// literal substrings, the same way the in-memory matcher treats them.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLog(s scanner) (*models.LogEntry, error) {
	entry := &models.LogEntry{}
	var createdAt int64
	var archived int
	err := s.Scan(
		&entry.ID, &entry.Title, &entry.AppName, &entry.Host, &entry.IP,
		&entry.Environment, &entry.Level, &entry.Content,
		&createdAt, &archived, &entry.UserID,
	)
	if err != nil {
		return nil, err
	}
	entry.CreatedAt = time.Unix(0, createdAt).UTC()
	entry.Archived = archived != 0
	return entry, nil
}
