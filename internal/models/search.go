package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned by LogSearch.Validate when both timestamp
// bounds are present and the start is after the end.
var ErrInvalidRange = errors.New("start timestamp must not be after end timestamp")

// ValidationError describes a request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LogSearch is the set of optional match criteria applied to log entries.
// It is shared by live trigger matching and by historical search: absent
// criteria (empty strings, zero times) impose no constraint.
//
// LogSearch is a transient request value, never persisted.
type LogSearch struct {
	// Title, AppName, Host, IP and Content are matched as
	// case-insensitive substrings. Empty means no constraint.
	Title   string
	AppName string
	Host    string
	IP      string
	Content string

	// Environment and Level are matched by exact equality.
	// Empty means no constraint.
	Environment LogEnvironment
	Level       LogLevel

	// StartTimestamp and EndTimestamp bound the entry creation time,
	// inclusive on both ends. A zero time means unbounded.
	StartTimestamp time.Time
	EndTimestamp   time.Time

	// UserID restricts results to entries owned by that account.
	// Empty means no scope restriction.
	UserID string
}

// Validate checks the search criteria for consistency. It fails with
// ErrInvalidRange when both bounds are set and start is after end.
func (s LogSearch) Validate() error {
	if !s.StartTimestamp.IsZero() && !s.EndTimestamp.IsZero() && s.StartTimestamp.After(s.EndTimestamp) {
		return fmt.Errorf("startTimestamp: %w", ErrInvalidRange)
	}
	return nil
}

// DayRange widens calendar days into an inclusive timestamp range,
// from 00:00:00 on the start day through 23:59:59 on the end day.
func DayRange(start, end time.Time) (time.Time, time.Time) {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	e := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
	return s, e
}
