package search

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/logstackhq/logstack/internal/models"
)

// exportHeader is the CSV column order for exported entries.
var exportHeader = []string{
	"id", "title", "app_name", "host", "ip",
	"environment", "level", "content", "created_at",
}

// ExportCSV streams every entry matching the criteria to w as CSV,
// walking the store page by page so the full corpus is exported without
// holding it in memory. Fetching and encoding run concurrently.
func (s *Service) ExportCSV(ctx context.Context, search models.LogSearch, w io.Writer) error {
	if err := search.Validate(); err != nil {
		return err
	}

	pages := make(chan []*models.LogEntry, 1)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(pages)
		for page := 0; ; page++ {
			entries, total, err := s.logs.Query(ctx, search, page, s.maxPageSize)
			if err != nil {
				return fmt.Errorf("export query page %d: %w", page, err)
			}
			if len(entries) == 0 {
				return nil
			}
			select {
			case pages <- entries:
			case <-ctx.Done():
				return ctx.Err()
			}
			if int64(page+1)*int64(s.maxPageSize) >= total {
				return nil
			}
		}
	})

	g.Go(func() error {
		cw := csv.NewWriter(w)
		if err := cw.Write(exportHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		for entries := range pages {
			for _, entry := range entries {
				record := []string{
					entry.ID,
					entry.Title,
					entry.AppName,
					entry.Host,
					entry.IP,
					string(entry.Environment),
					string(entry.Level),
					entry.Content,
					entry.CreatedAt.Format(time.RFC3339),
				}
				if err := cw.Write(record); err != nil {
					return fmt.Errorf("write csv record: %w", err)
				}
			}
		}
		cw.Flush()
		return cw.Error()
	})

	return g.Wait()
}
