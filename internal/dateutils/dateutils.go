// Package dateutils parses the date column of expense exports and provides
// the calendar helpers used by reporting.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date layouts
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutUS        = "01/02/2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutWithMonth = "2-Jan-2006"
	MonthLayout         = "2006-01"
)

// CommonFormats are tried in order when no explicit layout is configured.
// Slash dates are read month first, then day first.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	time.RFC3339,
	"2006-01-02T15:04:05",
	DateLayoutUS,
	"02/01/2006",
	"2006/01/02",
	DateLayoutEuropean,
	"2.1.2006",
	"02-01-2006",
	DateLayoutWithMonth,
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims the string and collapses inner whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate parses dateStr with the preferred layout if given, then with
// CommonFormats. The result is truncated to the calendar day in UTC and the
// layout that matched is returned.
func ParseDate(dateStr, preferred string) (time.Time, string, error) {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}

	layouts := CommonFormats
	if preferred != "" {
		layouts = append([]string{preferred}, CommonFormats...)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return TruncateToDay(t), layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// TruncateToDay drops the time of day and location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ToISODate formats a date as YYYY-MM-DD, or "" for the zero time.
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// MonthKey returns the YYYY-MM bucket of a date.
func MonthKey(date time.Time) string {
	return date.Format(MonthLayout)
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// CompareDates compares two dates by calendar day and returns -1, 0 or 1.
func CompareDates(date1, date2 time.Time) int {
	d1, d2 := TruncateToDay(date1), TruncateToDay(date2)
	switch {
	case d1.Before(d2):
		return -1
	case d1.After(d2):
		return 1
	default:
		return 0
	}
}
