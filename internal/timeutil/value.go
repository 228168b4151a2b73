// Package timeutil normalizes the time shapes the transportation records use
// and renders them for display.
package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var errUnparseable = errors.New("unparseable time")

// TimeValue is a time of day in one of four shapes: HHMM, ISO, Minutes or
// Instant. A nil TimeValue means the value is missing.
type TimeValue interface {
	// clock returns the wall-clock hour and minute.
	clock() (hour, minute int, err error)
	// empty reports whether the value is the zero value of its shape.
	empty() bool
}

// HHMM is a "HH:mm" (or "HH:mm:ss") string.
type HHMM string

// ISO is an ISO-8601 datetime string.
type ISO string

// Minutes counts minutes since midnight.
type Minutes int

// Instant is a point in time, read in its own location.
type Instant time.Time

var hhmmPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)

func (v HHMM) clock() (int, int, error) {
	m := hhmmPattern.FindStringSubmatch(strings.TrimSpace(string(v)))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", errUnparseable, string(v))
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if h > 23 || mm > 59 {
		return 0, 0, fmt.Errorf("%w: %q out of range", errUnparseable, string(v))
	}
	return h, mm, nil
}

func (v HHMM) empty() bool { return strings.TrimSpace(string(v)) == "" }

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

func (v ISO) clock() (int, int, error) {
	s := strings.TrimSpace(string(v))
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q", errUnparseable, string(v))
}

func (v ISO) empty() bool { return strings.TrimSpace(string(v)) == "" }

func (v Minutes) clock() (int, int, error) {
	if v < 0 {
		return 0, 0, fmt.Errorf("%w: negative minutes %d", errUnparseable, int(v))
	}
	m := int(v) % (24 * 60)
	return m / 60, m % 60, nil
}

// A zero Minutes counts as missing, the same as the other shapes' zero values.
func (v Minutes) empty() bool { return v == 0 }

func (v Instant) clock() (int, int, error) {
	t := time.Time(v)
	return t.Hour(), t.Minute(), nil
}

func (v Instant) empty() bool { return time.Time(v).IsZero() }

// FromString picks HHMM for clock strings and ISO for everything else.
func FromString(s string) TimeValue {
	if hhmmPattern.MatchString(strings.TrimSpace(s)) {
		return HHMM(s)
	}
	return ISO(s)
}

func missing(v TimeValue) bool {
	return v == nil || v.empty()
}
