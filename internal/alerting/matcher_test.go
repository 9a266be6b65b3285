package alerting

import (
	"testing"
	"time"

	"github.com/logstackhq/logstack/internal/models"
)

func sampleEntry() *models.LogEntry {
	return &models.LogEntry{
		ID:          "log-1",
		Title:       "Database Connection Timeout",
		AppName:     "checkout-service",
		Host:        "web-01.internal",
		IP:          "10.0.4.17",
		Environment: models.EnvProduction,
		Level:       models.LevelError,
		Content:     "dial tcp 10.0.9.2:5432: i/o timeout after 30s",
		CreatedAt:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestMatches(t *testing.T) {
	entry := sampleEntry()

	tests := []struct {
		name   string
		search models.LogSearch
		want   bool
	}{
		{
			name:   "empty criteria match everything",
			search: models.LogSearch{},
			want:   true,
		},
		{
			name:   "title substring, case-insensitive",
			search: models.LogSearch{Title: "connection timeout"},
			want:   true,
		},
		{
			name:   "title substring absent",
			search: models.LogSearch{Title: "panic"},
			want:   false,
		},
		{
			name:   "app name substring",
			search: models.LogSearch{AppName: "CHECKOUT"},
			want:   true,
		},
		{
			name:   "host substring",
			search: models.LogSearch{Host: "web-01"},
			want:   true,
		},
		{
			name:   "ip substring",
			search: models.LogSearch{IP: "10.0.4."},
			want:   true,
		},
		{
			name:   "content substring",
			search: models.LogSearch{Content: "i/o timeout"},
			want:   true,
		},
		{
			name:   "environment exact match",
			search: models.LogSearch{Environment: models.EnvProduction},
			want:   true,
		},
		{
			name:   "environment mismatch",
			search: models.LogSearch{Environment: models.EnvStaging},
			want:   false,
		},
		{
			name:   "level exact match",
			search: models.LogSearch{Level: models.LevelError},
			want:   true,
		},
		{
			name:   "level mismatch",
			search: models.LogSearch{Level: models.LevelWarn},
			want:   false,
		},
		{
			name: "all criteria together",
			search: models.LogSearch{
				Title:       "timeout",
				AppName:     "checkout",
				Environment: models.EnvProduction,
				Level:       models.LevelError,
			},
			want: true,
		},
		{
			name: "one failing criterion rejects",
			search: models.LogSearch{
				Title:   "timeout",
				AppName: "billing",
			},
			want: false,
		},
		{
			name:   "start bound inclusive",
			search: models.LogSearch{StartTimestamp: entry.CreatedAt},
			want:   true,
		},
		{
			name:   "end bound inclusive",
			search: models.LogSearch{EndTimestamp: entry.CreatedAt},
			want:   true,
		},
		{
			name:   "before start bound",
			search: models.LogSearch{StartTimestamp: entry.CreatedAt.Add(time.Second)},
			want:   false,
		},
		{
			name:   "after end bound",
			search: models.LogSearch{EndTimestamp: entry.CreatedAt.Add(-time.Second)},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(entry, tt.search); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesTrigger(t *testing.T) {
	entry := sampleEntry()
	filter := models.TriggerFilter{Level: models.LevelError}

	tests := []struct {
		name    string
		trigger *models.Trigger
		want    bool
	}{
		{
			name:    "active matching trigger",
			trigger: &models.Trigger{Filter: filter, Active: true},
			want:    true,
		},
		{
			name:    "inactive trigger never matches",
			trigger: &models.Trigger{Filter: filter, Active: false},
			want:    false,
		},
		{
			name:    "archived trigger never matches",
			trigger: &models.Trigger{Filter: filter, Active: true, Archived: true},
			want:    false,
		},
		{
			name:    "active trigger with non-matching filter",
			trigger: &models.Trigger{Filter: models.TriggerFilter{Level: models.LevelDebug}, Active: true},
			want:    false,
		},
		{
			name:    "active trigger with empty filter matches everything",
			trigger: &models.Trigger{Active: true},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesTrigger(entry, tt.trigger); got != tt.want {
				t.Errorf("MatchesTrigger() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		s, substr string
		want      bool
	}{
		{"Hello World", "hello", true},
		{"Hello World", "WORLD", true},
		{"Hello World", "lo wo", true},
		{"Hello World", "", true},
		{"", "", true},
		{"", "x", false},
		{"short", "longer than s", false},
	}

	for _, tt := range tests {
		if got := containsFold(tt.s, tt.substr); got != tt.want {
			t.Errorf("containsFold(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
		}
	}
}
