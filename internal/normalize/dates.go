package normalize

import (
	"strings"
	"time"
)

// Date formats found in HCRIS report files across vintages.
var dateFormats = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"01-02-2006",
	"20060102",
}

// ParseDate attempts to parse a date string in the known HCRIS formats.
// Returns nil if the input is empty or unparseable.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, fmt := range dateFormats {
		if t, err := time.Parse(fmt, s); err == nil {
			return &t
		}
	}
	return nil
}

// ISODate renders a date as a sortable ISO-8601 day string, or nil.
func ISODate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
