// Package search implements the historical log search pipeline:
// validated, paginated, multi-criteria queries over stored entries, and
// full-corpus CSV export driven by the same predicate.
package search

import (
	"context"
	"fmt"

	"github.com/logstackhq/logstack/internal/models"
	"github.com/logstackhq/logstack/internal/storage"
)

const (
	// DefaultPageSize is used when the caller does not specify a size.
	DefaultPageSize = 20
	// DefaultMaxPageSize bounds the per-page response cost.
	DefaultMaxPageSize = 100
)

// Page is one page of search results.
type Page struct {
	Items      []*models.LogEntry `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Size       int                `json:"size"`
	TotalPages int                `json:"total_pages"`
}

// Service answers log search queries against the log store.
type Service struct {
	logs        storage.LogRepository
	maxPageSize int
}

// NewService creates a search service. maxPageSize <= 0 selects the
// default bound.
func NewService(logs storage.LogRepository, maxPageSize int) *Service {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	return &Service{logs: logs, maxPageSize: maxPageSize}
}

// Search returns one page of entries matching the criteria, sorted by
// creation time descending. The criteria are validated before any query
// runs; an invalid date range is reported to the caller, never silently
// corrected. page is zero-based; size is clamped to the configured
// maximum.
func (s *Service) Search(ctx context.Context, search models.LogSearch, page, size int) (*Page, error) {
	if err := search.Validate(); err != nil {
		return nil, err
	}

	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}

	entries, total, err := s.logs.Query(ctx, search, page, size)
	if err != nil {
		return nil, fmt.Errorf("search logs: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return &Page{
		Items:      entries,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}, nil
}
