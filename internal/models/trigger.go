package models

import (
	"time"
)

// TriggerFilter is the predicate a trigger applies to incoming logs.
// It has the same shape as LogSearch minus the date range and user scope,
// which do not apply to live matching.
type TriggerFilter struct {
	Title       string         `json:"title,omitempty"`
	AppName     string         `json:"app_name,omitempty"`
	Host        string         `json:"host,omitempty"`
	IP          string         `json:"ip,omitempty"`
	Environment LogEnvironment `json:"environment,omitempty"`
	Content     string         `json:"content,omitempty"`
	Level       LogLevel       `json:"level,omitempty"`
}

// Trigger is a standing, user-owned rule. When an incoming log satisfies
// its filter, an Alert is produced and the trigger's message is sent to
// its notification email.
type Trigger struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Message   string        `json:"message"`
	Email     string        `json:"email"`
	Filter    TriggerFilter `json:"filter"`
	Active    bool          `json:"active"`
	Archived  bool          `json:"archived"`
	CreatedBy string        `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

// Search projects the trigger's filter into the shared predicate shape
// used by the matching engine.
func (t *Trigger) Search() LogSearch {
	return LogSearch{
		Title:       t.Filter.Title,
		AppName:     t.Filter.AppName,
		Host:        t.Filter.Host,
		IP:          t.Filter.IP,
		Environment: t.Filter.Environment,
		Content:     t.Filter.Content,
		Level:       t.Filter.Level,
	}
}

// Matchable reports whether the trigger participates in live matching.
// Inactive or archived triggers stay visible for administration but are
// excluded from matching.
func (t *Trigger) Matchable() bool {
	return t.Active && !t.Archived
}
