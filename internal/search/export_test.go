package search

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/logstackhq/logstack/internal/models"
)

func TestExportCSVAllPages(t *testing.T) {
	// Three pages at the service's max page size of 10.
	svc := NewService(seededRepo(25), 10)

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), models.LogSearch{}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}

	if len(records) != 26 { // header + 25 entries
		t.Fatalf("expected 26 records, got %d", len(records))
	}
	if records[0][0] != "id" || records[0][8] != "created_at" {
		t.Errorf("unexpected header: %v", records[0])
	}
	// Newest entry first, matching search ordering.
	if records[1][0] != "log-024" {
		t.Errorf("first exported entry = %s, want log-024", records[1][0])
	}
	if records[25][0] != "log-000" {
		t.Errorf("last exported entry = %s, want log-000", records[25][0])
	}
}

func TestExportCSVFiltered(t *testing.T) {
	svc := NewService(seededRepo(25), 10)

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), models.LogSearch{Level: models.LevelError}, &buf)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}

	if len(records) != 6 { // header + 5 error entries
		t.Fatalf("expected 6 records, got %d", len(records))
	}
	for _, rec := range records[1:] {
		if rec[6] != "error" {
			t.Errorf("exported entry %s has level %s", rec[0], rec[6])
		}
	}
}

func TestExportCSVEmpty(t *testing.T) {
	svc := NewService(&memLogRepo{}, 10)

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), models.LogSearch{}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected header only, got %d records", len(records))
	}
}

func TestExportCSVInvalidRange(t *testing.T) {
	svc := NewService(seededRepo(5), 10)

	now := time.Now()
	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), models.LogSearch{
		StartTimestamp: now,
		EndTimestamp:   now.Add(-time.Hour),
	}, &buf)

	if !errors.Is(err, models.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("invalid range must not produce output")
	}
}

func TestExportCSVQueryError(t *testing.T) {
	repo := seededRepo(5)
	repo.queryErr = errors.New("db gone")
	svc := NewService(repo, 10)

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), models.LogSearch{}, &buf); err == nil {
		t.Fatal("expected error from failing query")
	}
}
