// Package alerting evaluates log entries against trigger predicates.
//
// Matching is a pure function over an entry and a set of criteria: no
// I/O, no shared state, safe to call concurrently. All present criteria
// must hold (conjunction); absent criteria are vacuously true.
package alerting

import (
	"strings"

	"github.com/logstackhq/logstack/internal/models"
)

// Matches reports whether a log entry satisfies every present criterion
// of the search predicate.
//
// Text criteria (title, app name, host, ip, content) match by
// case-insensitive substring containment; an empty criterion matches
// everything. Enum criteria (environment, level) match by exact
// equality. Timestamp bounds are inclusive.
func Matches(entry *models.LogEntry, search models.LogSearch) bool {
	if !containsFold(entry.Title, search.Title) {
		return false
	}
	if !containsFold(entry.AppName, search.AppName) {
		return false
	}
	if !containsFold(entry.Host, search.Host) {
		return false
	}
	if !containsFold(entry.IP, search.IP) {
		return false
	}
	if !containsFold(entry.Content, search.Content) {
		return false
	}
	if search.Environment != "" && entry.Environment != search.Environment {
		return false
	}
	if search.Level != "" && entry.Level != search.Level {
		return false
	}
	if !search.StartTimestamp.IsZero() && entry.CreatedAt.Before(search.StartTimestamp) {
		return false
	}
	if !search.EndTimestamp.IsZero() && entry.CreatedAt.After(search.EndTimestamp) {
		return false
	}
	return true
}

// MatchesTrigger reports whether a log entry satisfies a trigger's
// filter. Inactive or archived triggers never match.
func MatchesTrigger(entry *models.LogEntry, trigger *models.Trigger) bool {
	if !trigger.Matchable() {
		return false
	}
	return Matches(entry, trigger.Search())
}

// containsFold reports whether substr is contained in s, ignoring case.
// An empty substr matches any s.
func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
