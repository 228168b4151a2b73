package timeutil

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DeriveEndTime adds durationMinutes to a "HH:mm" start and returns the
// "HH:mm" end. ok is false when start is empty or malformed, or the duration
// is not positive.
//
// Trips that run past midnight wrap into 00-23 with no day marker; callers
// that care must compare against the start themselves.
func DeriveEndTime(start string, durationMinutes int) (end string, ok bool) {
	if start == "" || durationMinutes <= 0 {
		return "", false
	}
	h, m, err := HHMM(start).clock()
	if err != nil {
		logrus.WithError(err).WithField("start", start).Warn("DeriveEndTime: bad start time")
		return "", false
	}
	ref := time.Date(2000, time.January, 1, h, m, 0, 0, time.UTC)
	return ref.Add(time.Duration(durationMinutes) * time.Minute).Format("15:04"), true
}
