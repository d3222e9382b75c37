package telemetry

import (
	"fmt"
	"strings"
	"time"
)

const SettingKey = "telemetry"

const (
	FormatCSV = "csv"
	FormatASC = "asc"
)

// Setting is the [com.telemetry] table of the setting file. The loader
// itself is chosen with --loader.
type Setting struct {
	// Path is read when a command is given no file.
	Path       string `toml:"path"`
	TimeColumn int    `toml:"time_column"`
	// ValueColumns defaults to the magnitude column of the format when empty.
	ValueColumns []int  `toml:"value_columns"`
	Delimiter    string `toml:"delimiter"`
	// Start and End bound the time window, inclusive. Empty means unbounded.
	Start        string `toml:"start"`
	End          string `toml:"end"`
	SkipBadLines bool   `toml:"skip_bad_lines"`
}

func NewDefaultSetting() *Setting {
	return &Setting{
		TimeColumn:   0,
		Delimiter:    ",",
		SkipBadLines: true,
	}
}

// VectorColumns are the Br, Bt and Bn columns of the CSV table.
func VectorColumns() []int {
	return []int{3, 4, 5}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime accepts the timestamp forms found in the telemetry tables and
// in the window bounds. Times without a zone are UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}

type window struct {
	start, end time.Time
}

func newWindow(start, end string) (window, error) {
	w := window{}
	var err error
	if start != "" {
		if w.start, err = ParseTime(start); err != nil {
			return w, fmt.Errorf("window start: %w", err)
		}
	}
	if end != "" {
		if w.end, err = ParseTime(end); err != nil {
			return w, fmt.Errorf("window end: %w", err)
		}
	}
	if !w.start.IsZero() && !w.end.IsZero() && w.end.Before(w.start) {
		return w, fmt.Errorf("window end %s is before start %s", end, start)
	}
	return w, nil
}

func (w window) contains(t time.Time) bool {
	if !w.start.IsZero() && t.Before(w.start) {
		return false
	}
	if !w.end.IsZero() && t.After(w.end) {
		return false
	}
	return true
}
