package coerce

import (
	"regexp"
	"time"
)

// isoDate accepts a calendar date, optionally followed by a time of day
// with minutes, optional seconds and fraction, and a mandatory zone.
var isoDate = regexp.MustCompile(
	`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}(:\d{2}(\.\d{1,9})?)?(Z|[+-]\d{2}:\d{2}))?$`,
)

// ParseDate reports whether s is a strict ISO-8601 date or date-time and
// returns the instant. Accepted forms:
//
//	2006-01-02
//	2006-01-02T15:04Z
//	2006-01-02T15:04:05Z
//	2006-01-02T15:04:05.999999999+07:00
//
// Plain numbers, free-form dates and out-of-range fields are rejected.
// Date-only values are interpreted as UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	m := isoDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	var layout string
	switch {
	case m[1] == "":
		layout = "2006-01-02"
	case m[2] == "":
		layout = "2006-01-02T15:04Z07:00"
	default:
		// fractional seconds are accepted after the seconds field
		layout = "2006-01-02T15:04:05Z07:00"
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
