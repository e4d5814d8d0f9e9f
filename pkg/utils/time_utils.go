// utils/timeutil.go
package utils

import "time"

const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in YYYY-MM-DD form.
// Returns zero time on failure to let callers decide how to render.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatICSDate renders a date-only value for DTSTART;VALUE=DATE fields.
func FormatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// FormatICSStamp renders a UTC timestamp for DTSTAMP fields.
func FormatICSStamp(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}
