package logs

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/logstackhq/logstack/internal/models"
)

// dayFormat is the calendar-day format accepted on search endpoints.
// Day inputs are widened to inclusive 00:00:00–23:59:59 bounds.
const dayFormat = "2006-01-02"

// parseSearch builds a LogSearch from query parameters, scoped to the
// authenticated user.
func parseSearch(r *http.Request, userID string) (models.LogSearch, error) {
	q := r.URL.Query()

	search := models.LogSearch{
		Title:   q.Get("title"),
		AppName: q.Get("appName"),
		Host:    q.Get("host"),
		IP:      q.Get("ip"),
		Content: q.Get("content"),
		UserID:  userID,
	}

	if v := q.Get("environment"); v != "" {
		env, ok := models.ParseLogEnvironment(v)
		if !ok {
			return models.LogSearch{}, &models.ValidationError{Field: "environment", Message: fmt.Sprintf("unrecognized environment %q", v)}
		}
		search.Environment = env
	}
	if v := q.Get("level"); v != "" {
		level, ok := models.ParseLogLevel(v)
		if !ok {
			return models.LogSearch{}, &models.ValidationError{Field: "level", Message: fmt.Sprintf("unrecognized level %q", v)}
		}
		search.Level = level
	}

	var startDay, endDay time.Time
	if v := q.Get("startTimestamp"); v != "" {
		day, err := time.Parse(dayFormat, v)
		if err != nil {
			return models.LogSearch{}, &models.ValidationError{Field: "startTimestamp", Message: "expected format YYYY-MM-DD"}
		}
		startDay = day
	}
	if v := q.Get("endTimestamp"); v != "" {
		day, err := time.Parse(dayFormat, v)
		if err != nil {
			return models.LogSearch{}, &models.ValidationError{Field: "endTimestamp", Message: "expected format YYYY-MM-DD"}
		}
		endDay = day
	}

	if !startDay.IsZero() || !endDay.IsZero() {
		start, end := widenDays(startDay, endDay)
		search.StartTimestamp = start
		search.EndTimestamp = end
	}

	return search, nil
}

// widenDays expands day-granular bounds to full-day timestamps, leaving
// an absent bound unbounded.
func widenDays(startDay, endDay time.Time) (time.Time, time.Time) {
	switch {
	case startDay.IsZero():
		_, end := models.DayRange(endDay, endDay)
		return time.Time{}, end
	case endDay.IsZero():
		start, _ := models.DayRange(startDay, startDay)
		return start, time.Time{}
	default:
		return models.DayRange(startDay, endDay)
	}
}

// parsePagination reads zero-based page and size query parameters.
func parsePagination(r *http.Request) (page, size int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	if page < 0 {
		page = 0
	}
	size, _ = strconv.Atoi(q.Get("size"))
	return page, size
}
