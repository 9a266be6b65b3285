package models

import (
	"time"
)

// Role defines a user's permission level.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// ParseRole converts a string to Role. Returns false for unknown values.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "admin":
		return RoleAdmin, true
	case "operator":
		return RoleOperator, true
	default:
		return "", false
	}
}

// User is an account that owns triggers and submits logs via its API key.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	APIKey       string    `json:"api_key"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
