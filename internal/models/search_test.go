package models

import (
	"errors"
	"testing"
	"time"
)

func TestLogSearchValidate(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		search  LogSearch
		wantErr bool
	}{
		{
			name:   "empty search is valid",
			search: LogSearch{},
		},
		{
			name:   "start only",
			search: LogSearch{StartTimestamp: base},
		},
		{
			name:   "end only",
			search: LogSearch{EndTimestamp: base},
		},
		{
			name:   "start before end",
			search: LogSearch{StartTimestamp: base, EndTimestamp: base.Add(time.Hour)},
		},
		{
			name:   "start equals end",
			search: LogSearch{StartTimestamp: base, EndTimestamp: base},
		},
		{
			name:    "start after end",
			search:  LogSearch{StartTimestamp: base.Add(time.Hour), EndTimestamp: base},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.search.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, ErrInvalidRange) {
					t.Errorf("expected ErrInvalidRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDayRange(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 30, 45, 123, time.UTC)
	end := time.Date(2026, 3, 12, 9, 15, 0, 0, time.UTC)

	s, e := DayRange(start, end)

	wantStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 3, 12, 23, 59, 59, 0, time.UTC)

	if !s.Equal(wantStart) {
		t.Errorf("start: got %v, want %v", s, wantStart)
	}
	if !e.Equal(wantEnd) {
		t.Errorf("end: got %v, want %v", e, wantEnd)
	}
}

func TestDayRangeSameDay(t *testing.T) {
	day := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	s, e := DayRange(day, day)

	// The widened range must span the whole calendar day so that a
	// same-day search is non-empty.
	if !s.Before(e) {
		t.Fatalf("expected start %v before end %v", s, e)
	}
	if s.Day() != e.Day() {
		t.Errorf("expected same calendar day, got %v and %v", s, e)
	}
}
