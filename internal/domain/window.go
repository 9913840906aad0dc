package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vikramvicky-1/ttdashboard-sub000/internal/util"
)

type WindowMode string

const (
	WindowMonth WindowMode = "month"
	WindowYear  WindowMode = "year"
	WindowRange WindowMode = "range"
)

const (
	minWindowYear = 1970
	maxWindowYear = 9999
)

// Window is a half-open time interval [Start, End) used for reporting
type Window struct {
	Mode  WindowMode `json:"mode"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
	Month int        `json:"month,omitempty"`
	Year  int        `json:"year,omitempty"`
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DaysInMonth returns the number of days of a month window, 0 otherwise
func (w Window) DaysInMonth() int {
	if w.Mode != WindowMonth {
		return 0
	}
	return util.DaysInMonth(w.Year, time.Month(w.Month))
}

// MonthWindow spans the first instant of the month up to the first instant of the next
func MonthWindow(month, year int, loc *time.Location) (Window, error) {
	if month < 1 || month > 12 {
		return Window{}, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	if year < minWindowYear || year > maxWindowYear {
		return Window{}, fmt.Errorf("%w: year out of range", ErrInvalidInput)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return Window{
		Mode:  WindowMonth,
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Month: month,
		Year:  year,
	}, nil
}

// YearWindow spans January 1 up to January 1 of the following year
func YearWindow(year int, loc *time.Location) (Window, error) {
	if year < minWindowYear || year > maxWindowYear {
		return Window{}, fmt.Errorf("%w: year out of range", ErrInvalidInput)
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return Window{
		Mode:  WindowYear,
		Start: start,
		End:   start.AddDate(1, 0, 0),
		Year:  year,
	}, nil
}

// RangeWindow spans from the start of fromDate to the end of toDate, both inclusive
func RangeWindow(fromDate, toDate string, loc *time.Location) (Window, error) {
	fromDate, toDate = strings.TrimSpace(fromDate), strings.TrimSpace(toDate)
	if fromDate == "" || toDate == "" {
		return Window{}, fmt.Errorf("%w: fromDate and toDate are required", ErrInvalidInput)
	}
	from, err := time.ParseInLocation(util.DateLayout, fromDate, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: fromDate must be YYYY-MM-DD", ErrInvalidRange)
	}
	to, err := time.ParseInLocation(util.DateLayout, toDate, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: toDate must be YYYY-MM-DD", ErrInvalidRange)
	}
	if from.After(to) {
		return Window{}, fmt.Errorf("%w: fromDate is after toDate", ErrInvalidRange)
	}
	return Window{
		Mode:  WindowRange,
		Start: from,
		End:   to.AddDate(0, 0, 1),
	}, nil
}

// ParseMonthWindow builds a month window from raw query values
func ParseMonthWindow(month, year string, loc *time.Location) (Window, error) {
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return Window{}, fmt.Errorf("%w: month is required", ErrInvalidInput)
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Window{}, fmt.Errorf("%w: year is required", ErrInvalidInput)
	}
	return MonthWindow(m, y, loc)
}

// ParseYearWindow builds a year window from a raw query value
func ParseYearWindow(year string, loc *time.Location) (Window, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Window{}, fmt.Errorf("%w: year is required", ErrInvalidInput)
	}
	return YearWindow(y, loc)
}
