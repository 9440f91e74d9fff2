package utils

import (
	"time"
)

const DateLayout = "2006-01-02"

// Today returns the current date formatted as YYYY-MM-DD in UTC.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
