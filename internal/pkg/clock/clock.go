// Package clock provides a tiny time abstraction.
//
// Business logic that cares about time (challenge expiry, throttle windows)
// should depend on the Clocker interface instead of calling time.Now()
// directly, so tests can swap in a deterministic clock.
package clock

import "time"

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production clock implementation backed by time.Now.
type TimeClocker struct{}

// New returns a TimeClocker that reads the current system time.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// Fixed is a Clocker that always reports the same instant. Test helper.
type Fixed struct {
	At time.Time
}

// Now returns the fixed instant.
func (f *Fixed) Now() time.Time {
	return f.At
}
