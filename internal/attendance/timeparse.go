package attendance

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DayKeyLayout is the calendar-day key format. Keys compare lexically in
// chronological order.
const DayKeyLayout = "2006-01-02"

// zoneLessLayouts cover the task service's isoformat() output, which carries
// no offset. They are interpreted in the caller's location.
var zoneLessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp parses an ISO-8601-ish timestamp. Strings without an offset
// are read in loc (time.Local when nil). Layouts the fast path does not know
// are handed to dateparse. The boolean is false for blank or unparseable input.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range zoneLessLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DayKey returns the YYYY-MM-DD key of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayKeyLayout)
}

// ValidDayKey reports whether s is a well-formed calendar-day key.
func ValidDayKey(s string) bool {
	_, err := time.Parse(DayKeyLayout, s)
	return err == nil
}
