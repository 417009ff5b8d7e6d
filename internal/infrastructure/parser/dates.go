package parser

import (
	"regexp"
	"strings"
	"time"
)

// dateLayouts are matched against the whole string, in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// datePatterns pull a date-shaped substring out of surrounding text when no
// layout matches the whole string.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}`),
	regexp.MustCompile(`[A-Za-z]+ \d{1,2}, \d{4}`),
}

// NormalizeDate converts free-form date text into a timestamp. The second
// return value is false when the text could not be parsed; no default date
// is ever guessed.
func NormalizeDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if ts, ok := parseLayouts(raw); ok {
		return ts, true
	}

	for _, pattern := range datePatterns {
		match := pattern.FindString(raw)
		if match == "" {
			continue
		}
		if ts, ok := parseLayouts(match); ok {
			return ts, true
		}
	}

	return time.Time{}, false
}

func parseLayouts(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
