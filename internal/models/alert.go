package models

import (
	"time"
)

// Alert records that a trigger matched a specific log entry.
//
// TriggerName, Message and Email are snapshots taken at match time so
// that the alert survives later edits to the trigger.
type Alert struct {
	ID          string    `json:"id"`
	TriggerID   string    `json:"trigger_id"`
	TriggerName string    `json:"trigger_name"`
	Message     string    `json:"message"`
	Email       string    `json:"email"`
	LogID       string    `json:"log_id"`
	Visualized  bool      `json:"visualized"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAlert builds an alert for a trigger/log match, snapshotting the
// trigger's message and email.
func NewAlert(id string, trigger *Trigger, logID string, now time.Time) *Alert {
	return &Alert{
		ID:          id,
		TriggerID:   trigger.ID,
		TriggerName: trigger.Name,
		Message:     trigger.Message,
		Email:       trigger.Email,
		LogID:       logID,
		Visualized:  false,
		Archived:    false,
		CreatedAt:   now,
	}
}
