package domain

import (
	"errors"
	"testing"
	"time"
)

func TestMonthWindow(t *testing.T) {
	w, err := MonthWindow(2, 2024, time.UTC)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !w.Start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected start %v", w.Start)
	}
	if !w.End.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected end %v", w.End)
	}
	if w.DaysInMonth() != 29 {
		t.Errorf("Expected 29 days, got %d", w.DaysInMonth())
	}
	if !w.Contains(time.Date(2024, 2, 29, 23, 59, 59, 999, time.UTC)) {
		t.Error("Expected last instant of February to be contained")
	}
	if w.Contains(w.End) {
		t.Error("End must be exclusive")
	}
}

func TestMonthWindow_December(t *testing.T) {
	w, err := MonthWindow(12, 2023, time.UTC)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !w.End.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected window to end on Jan 1 2024, got %v", w.End)
	}
}

func TestParseMonthWindow_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		month string
		year  string
	}{
		{"month zero", "0", "2024"},
		{"month thirteen", "13", "2024"},
		{"missing month", "", "2024"},
		{"missing year", "5", ""},
		{"non numeric year", "5", "twenty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMonthWindow(tt.month, tt.year, time.UTC)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestYearWindow(t *testing.T) {
	w, err := ParseYearWindow("2024", time.UTC)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !w.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || !w.End.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected year window %v - %v", w.Start, w.End)
	}
	if w.DaysInMonth() != 0 {
		t.Error("Year window has no month length")
	}

	if _, err := ParseYearWindow("", time.UTC); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestRangeWindow(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	w, err := RangeWindow("2024-03-01", "2024-03-10", loc)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !w.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("Unexpected start %v", w.Start)
	}
	// toDate is inclusive through 23:59:59.999
	if !w.Contains(time.Date(2024, 3, 10, 23, 59, 59, 999_000_000, loc)) {
		t.Error("Expected end of toDate to be contained")
	}
	if w.Contains(time.Date(2024, 3, 11, 0, 0, 0, 0, loc)) {
		t.Error("Expected day after toDate to be excluded")
	}

	single, err := RangeWindow("2024-03-05", "2024-03-05", loc)
	if err != nil {
		t.Fatalf("Expected same-day range to be valid, got %v", err)
	}
	if single.End.Sub(single.Start) != 24*time.Hour {
		t.Errorf("Expected one day window, got %v", single.End.Sub(single.Start))
	}
}

func TestRangeWindow_Errors(t *testing.T) {
	if _, err := RangeWindow("", "2024-03-10", time.UTC); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for missing fromDate, got %v", err)
	}
	if _, err := RangeWindow("2024-03-10", "2024-03-01", time.UTC); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange for reversed range, got %v", err)
	}
	if _, err := RangeWindow("03/01/2024", "2024-03-10", time.UTC); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange for bad format, got %v", err)
	}
}
