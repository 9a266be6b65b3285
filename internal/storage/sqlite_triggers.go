package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/logstackhq/logstack/internal/models"
)

type sqliteTriggerRepo struct {
	db dbtx
}

const triggerColumns = "id, name, message, email, filter_json, active, archived, created_by, created_at"

func (r *sqliteTriggerRepo) Create(ctx context.Context, trigger *models.Trigger) error {
	filterJSON, err := json.Marshal(trigger.Filter)
	if err != nil {
		return fmt.Errorf("marshal filter: %w", err)
	}

	query := `
		INSERT INTO triggers (` + triggerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		trigger.ID, trigger.Name, trigger.Message, trigger.Email,
		string(filterJSON), boolToInt(trigger.Active), boolToInt(trigger.Archived),
		trigger.CreatedBy, trigger.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert trigger: %w", err)
	}
	return nil
}

func (r *sqliteTriggerRepo) GetByID(ctx context.Context, id string) (*models.Trigger, error) {
	query := "SELECT " + triggerColumns + " FROM triggers WHERE id = ?"
	trigger, err := scanTrigger(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trigger %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trigger by id: %w", err)
	}
	return trigger, nil
}

func (r *sqliteTriggerRepo) Update(ctx context.Context, trigger *models.Trigger) error {
	filterJSON, err := json.Marshal(trigger.Filter)
	if err != nil {
		return fmt.Errorf("marshal filter: %w", err)
	}

	query := `
		UPDATE triggers SET name = ?, message = ?, email = ?, filter_json = ?,
			active = ?, archived = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		trigger.Name, trigger.Message, trigger.Email, string(filterJSON),
		boolToInt(trigger.Active), boolToInt(trigger.Archived),
		trigger.ID,
	)
	if err != nil {
		return fmt.Errorf("update trigger: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("trigger %s: %w", trigger.ID, ErrNotFound)
	}
	return nil
}

func (r *sqliteTriggerRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Trigger, error) {
	query := "SELECT " + triggerColumns + " FROM triggers WHERE created_by = ? ORDER BY name"
	return r.queryTriggers(ctx, query, userID)
}

func (r *sqliteTriggerRepo) ListActiveByOwner(ctx context.Context, userID string) ([]*models.Trigger, error) {
	query := "SELECT " + triggerColumns + ` FROM triggers
		WHERE created_by = ? AND active = 1 AND archived = 0 ORDER BY name`
	return r.queryTriggers(ctx, query, userID)
}

func (r *sqliteTriggerRepo) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE triggers SET active = ? WHERE id = ?", boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("set trigger active: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("trigger %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *sqliteTriggerRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE triggers SET archived = ? WHERE id = ?", boolToInt(archived), id)
	if err != nil {
		return fmt.Errorf("set trigger archived: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("trigger %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *sqliteTriggerRepo) queryTriggers(ctx context.Context, query string, args ...any) ([]*models.Trigger, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query triggers: %w", err)
	}
	defer rows.Close()

	var triggers []*models.Trigger
	for rows.Next() {
		trigger, err := scanTrigger(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trigger: %w", err)
		}
		triggers = append(triggers, trigger)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate triggers: %w", err)
	}
	return triggers, nil
}

func scanTrigger(s scanner) (*models.Trigger, error) {
	trigger := &models.Trigger{}
	var filterJSON string
	var active, archived int
	var createdAt int64
	err := s.Scan(
		&trigger.ID, &trigger.Name, &trigger.Message, &trigger.Email,
		&filterJSON, &active, &archived, &trigger.CreatedBy, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(filterJSON), &trigger.Filter); err != nil {
		return nil, fmt.Errorf("unmarshal filter: %w", err)
	}
	trigger.Active = active != 0
	trigger.Archived = archived != 0
	trigger.CreatedAt = time.Unix(0, createdAt).UTC()
	return trigger, nil
}
