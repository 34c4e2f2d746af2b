package matchlog

import "time"

// SetClock replaces the archive clock for the duration of a test
func SetClock(now func() time.Time) (restore func()) {
	prev := timeNow
	timeNow = now
	return func() { timeNow = prev }
}
