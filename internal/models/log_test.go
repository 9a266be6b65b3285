package models

import "testing"

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
		ok    bool
	}{
		{"trace", LevelTrace, true},
		{"debug", LevelDebug, true},
		{"info", LevelInfo, true},
		{"INFO", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"ERR", LevelError, true},
		{"fatal", LevelFatal, true},
		{"critical", LevelFatal, true},
		{"", "", false},
		{"verbose", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseLogLevel(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseLogLevel(%q) = (%q, %v), want (%q, %v)",
				tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseLogEnvironment(t *testing.T) {
	tests := []struct {
		input string
		want  LogEnvironment
		ok    bool
	}{
		{"production", EnvProduction, true},
		{"prod", EnvProduction, true},
		{"staging", EnvStaging, true},
		{"development", EnvDevelopment, true},
		{"dev", EnvDevelopment, true},
		{"test", EnvTest, true},
		{"", "", false},
		{"qa", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseLogEnvironment(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseLogEnvironment(%q) = (%q, %v), want (%q, %v)",
				tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLogLevelsOrder(t *testing.T) {
	levels := LogLevels()
	if len(levels) != 6 {
		t.Fatalf("expected 6 levels, got %d", len(levels))
	}
	if levels[0] != LevelTrace || levels[5] != LevelFatal {
		t.Errorf("unexpected severity order: %v", levels)
	}
}
