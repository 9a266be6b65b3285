package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/logstackhq/logstack/internal/models"
)

type sqliteAlertRepo struct {
	db dbtx
}

const alertColumns = "id, trigger_id, trigger_name, message, email, log_id, visualized, archived, created_at"

func (r *sqliteAlertRepo) Create(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		alert.ID, alert.TriggerID, alert.TriggerName, alert.Message, alert.Email,
		alert.LogID, boolToInt(alert.Visualized), boolToInt(alert.Archived),
		alert.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *sqliteAlertRepo) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	query := "SELECT " + alertColumns + " FROM alerts WHERE id = ?"
	alert, err := scanAlert(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("alert %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get alert by id: %w", err)
	}
	return alert, nil
}

func (r *sqliteAlertRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Alert, error) {
	query := `
		SELECT a.id, a.trigger_id, a.trigger_name, a.message, a.email,
			a.log_id, a.visualized, a.archived, a.created_at
		FROM alerts a
		JOIN triggers t ON t.id = a.trigger_id
		WHERE t.created_by = ?
		ORDER BY a.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return alerts, nil
}

// SetVisualized marks an alert acknowledged. The transition is one-way;
// acknowledging an already visualized alert leaves it visualized.
func (r *sqliteAlertRepo) SetVisualized(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE alerts SET visualized = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("set alert visualized: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("alert %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *sqliteAlertRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE alerts SET archived = ? WHERE id = ?", boolToInt(archived), id)
	if err != nil {
		return fmt.Errorf("set alert archived: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("alert %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanAlert(s scanner) (*models.Alert, error) {
	alert := &models.Alert{}
	var visualized, archived int
	var createdAt int64
	err := s.Scan(
		&alert.ID, &alert.TriggerID, &alert.TriggerName, &alert.Message, &alert.Email,
		&alert.LogID, &visualized, &archived, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	alert.Visualized = visualized != 0
	alert.Archived = archived != 0
	alert.CreatedAt = time.Unix(0, createdAt).UTC()
	return alert, nil
}
