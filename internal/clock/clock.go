// Package clock supplies the current instant to the attendance engine.
package clock

import "time"

// Clock reports the current time. The location of the returned value is the
// calendar used for every day, week, month and year boundary.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to Clock.
type Func func() time.Time

// Now implements Clock.
func (f Func) Now() time.Time { return f() }

// System returns a wall clock reporting time in loc. A nil loc means time.Local.
func System(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Func(func() time.Time { return time.Now().In(loc) })
}

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
