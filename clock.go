package s3comms

import "time"

// Clock abstracts the system clock used when signing requests, so that
// tests can supply a deterministic time rather than reading time.Now().
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock, backed by the system clock.
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// fixedClock is a test Clock that always returns the same instant.
type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time {
	return f.t
}
