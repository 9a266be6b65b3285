package models

import (
	"testing"
	"time"
)

func TestTriggerMatchable(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		archived bool
		want     bool
	}{
		{"active and live", true, false, true},
		{"inactive", false, false, false},
		{"archived", true, true, false},
		{"inactive and archived", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Trigger{Active: tt.active, Archived: tt.archived}
			if got := tr.Matchable(); got != tt.want {
				t.Errorf("Matchable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTriggerSearchProjection(t *testing.T) {
	tr := &Trigger{
		Filter: TriggerFilter{
			Title:       "timeout",
			AppName:     "checkout",
			Host:        "web-1",
			IP:          "10.0.0.1",
			Environment: EnvProduction,
			Content:     "connection refused",
			Level:       LevelError,
		},
	}

	s := tr.Search()

	if s.Title != "timeout" || s.AppName != "checkout" || s.Host != "web-1" ||
		s.IP != "10.0.0.1" || s.Environment != EnvProduction ||
		s.Content != "connection refused" || s.Level != LevelError {
		t.Errorf("projection lost filter criteria: %+v", s)
	}
	if !s.StartTimestamp.IsZero() || !s.EndTimestamp.IsZero() || s.UserID != "" {
		t.Error("trigger filters must not carry date bounds or user scope")
	}
}

func TestNewAlertSnapshotsTrigger(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tr := &Trigger{
		ID:      "trig-1",
		Name:    "prod errors",
		Message: "an error occurred in production",
		Email:   "oncall@example.com",
	}

	alert := NewAlert("alert-1", tr, "log-1", now)

	if alert.TriggerID != "trig-1" || alert.LogID != "log-1" {
		t.Errorf("unexpected references: %+v", alert)
	}
	if alert.TriggerName != tr.Name || alert.Message != tr.Message || alert.Email != tr.Email {
		t.Error("alert must snapshot trigger name, message, and email")
	}
	if alert.Visualized || alert.Archived {
		t.Error("new alerts start unseen and unarchived")
	}
	if !alert.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", alert.CreatedAt, now)
	}

	// Later trigger edits must not leak into the alert.
	tr.Message = "edited"
	if alert.Message == "edited" {
		t.Error("alert message must be an independent snapshot")
	}
}
