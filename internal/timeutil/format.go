package timeutil

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// NotAvailable is what FormatTime returns for missing or malformed input.
// Display code checks for it, so it must not change.
const NotAvailable = "N/A"

const minutesPerDay = 24 * 60

// FormatTime renders v as "h:mm AM" / "h:mm PM".
func FormatTime(v TimeValue) string {
	if missing(v) {
		return NotAvailable
	}
	h, m, err := v.clock()
	if err != nil {
		logrus.WithError(err).Warn("FormatTime: falling back to N/A")
		return NotAvailable
	}
	return time.Date(2000, time.January, 1, h, m, 0, 0, time.UTC).Format("3:04 PM")
}

// CalculateDuration returns the time from start to end as "H hr", "M min" or
// "H hr M min". An end earlier than start is taken to be on the next day.
// Missing or malformed endpoints yield "".
func CalculateDuration(start, end TimeValue) string {
	s, ok := toMinutes(start)
	if !ok {
		return ""
	}
	e, ok := toMinutes(end)
	if !ok {
		return ""
	}

	d := e - s
	if d < 0 {
		d += minutesPerDay
	}
	h, m := d/60, d%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%d hr %d min", h, m)
	case h > 0:
		return fmt.Sprintf("%d hr", h)
	default:
		return fmt.Sprintf("%d min", m)
	}
}

// ToMinutes converts v to minutes since midnight.
func ToMinutes(v TimeValue) (int, bool) {
	return toMinutes(v)
}

func toMinutes(v TimeValue) (int, bool) {
	if missing(v) {
		return 0, false
	}
	h, m, err := v.clock()
	if err != nil {
		logrus.WithError(err).Warn("CalculateDuration: ignoring malformed time")
		return 0, false
	}
	return h*60 + m, true
}
