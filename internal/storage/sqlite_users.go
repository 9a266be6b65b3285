package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/logstackhq/logstack/internal/models"
)

type sqliteUserRepo struct {
	db dbtx
}

const userColumns = "id, name, email, password_hash, api_key, role, created_at"

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.APIKey,
		user.Role, user.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *sqliteUserRepo) GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	return r.getBy(ctx, "api_key", apiKey)
}

func (r *sqliteUserRepo) getBy(ctx context.Context, column, value string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE " + column + " = ?"
	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user by %s: %w", column, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}
	return user, nil
}

func (r *sqliteUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *sqliteUserRepo) List(ctx context.Context) ([]*models.User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY name"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *sqliteUserRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func scanUser(s scanner) (*models.User, error) {
	user := &models.User{}
	var createdAt int64
	err := s.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.APIKey,
		&user.Role, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = time.Unix(0, createdAt).UTC()
	return user, nil
}
