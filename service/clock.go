package service

import (
	"time"
)

// Clock supplies the current time. Services take a Clock instead of
// calling time.Now so streak math is testable against fixed dates.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// SystemClock returns a Clock backed by the wall clock in UTC
func SystemClock() Clock {
	return systemClock{}
}

// UTCDate truncates t to its UTC calendar date. The daily boundary is
// midnight UTC everywhere.
func UTCDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
