package data

import "time"

// Clock supplies the timestamps the repository stamps onto rows.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// rowTime is a clock reading in UTC at the precision both stores keep.
func rowTime(c Clock) time.Time {
	return c.Now().UTC().Truncate(time.Microsecond)
}
