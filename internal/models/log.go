// Package models contains the core data structures for LogStack.
package models

import (
	"time"
)

// LogLevel represents the severity level of a log entry.
type LogLevel string

const (
	LevelTrace LogLevel = "trace"
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
	LevelFatal LogLevel = "fatal"
)

// logLevels is the recognized level set in severity order.
var logLevels = []LogLevel{
	LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal,
}

// ParseLogLevel converts a string to LogLevel.
// Returns false if the value is not in the recognized set.
func ParseLogLevel(s string) (LogLevel, bool) {
	switch s {
	case "trace", "TRACE", "Trace":
		return LevelTrace, true
	case "debug", "DEBUG", "Debug":
		return LevelDebug, true
	case "info", "INFO", "Info":
		return LevelInfo, true
	case "warn", "WARN", "Warn", "warning", "WARNING", "Warning":
		return LevelWarn, true
	case "error", "ERROR", "Error", "err", "ERR", "Err":
		return LevelError, true
	case "fatal", "FATAL", "Fatal", "critical", "CRITICAL", "Critical":
		return LevelFatal, true
	default:
		return "", false
	}
}

// LogLevels returns the recognized levels in severity order.
func LogLevels() []LogLevel {
	out := make([]LogLevel, len(logLevels))
	copy(out, logLevels)
	return out
}

// LogEnvironment represents the deployment environment a log came from.
type LogEnvironment string

const (
	EnvProduction  LogEnvironment = "production"
	EnvStaging     LogEnvironment = "staging"
	EnvDevelopment LogEnvironment = "development"
	EnvTest        LogEnvironment = "test"
)

// ParseLogEnvironment converts a string to LogEnvironment.
// Returns false if the value is not in the recognized set.
func ParseLogEnvironment(s string) (LogEnvironment, bool) {
	switch s {
	case "production", "PRODUCTION", "Production", "prod":
		return EnvProduction, true
	case "staging", "STAGING", "Staging":
		return EnvStaging, true
	case "development", "DEVELOPMENT", "Development", "dev":
		return EnvDevelopment, true
	case "test", "TEST", "Test":
		return EnvTest, true
	default:
		return "", false
	}
}

// LogEntry represents one reported application event.
//
// CreatedAt is assigned exactly once, by the ingestion pipeline at
// persistence time, and is immutable thereafter. The archived flag is
// the only mutable field; entries are never physically deleted.
type LogEntry struct {
	// ID is the unique identifier, assigned at creation.
	ID string `json:"id"`

	// Title is a short description of the event.
	Title string `json:"title"`

	// AppName is the name of the reporting application.
	AppName string `json:"app_name"`

	// Host is the machine the event originated from.
	Host string `json:"host"`

	// IP is the source address of the reporting process.
	IP string `json:"ip"`

	// Environment is the deployment environment.
	Environment LogEnvironment `json:"environment"`

	// Level is the severity level.
	Level LogLevel `json:"level"`

	// Content is the free-text body of the event.
	Content string `json:"content"`

	// CreatedAt is when the entry was persisted.
	CreatedAt time.Time `json:"created_at"`

	// Archived soft-hides the entry without deleting it.
	Archived bool `json:"archived"`

	// UserID references the account owning the API key that
	// submitted the entry.
	UserID string `json:"user_id"`
}

// String returns a string representation of the log entry.
func (e *LogEntry) String() string {
	return e.CreatedAt.Format(time.RFC3339) + " [" + string(e.Level) + "] " + e.Title
}
