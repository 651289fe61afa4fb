package clock

import "time"

// Clock abstracts time so eligibility windows and delay stamps are
// testable against a fixed instant.
type Clock interface {
	Now() time.Time
}

// System is the production implementation using actual system time.
type System struct{}

// NewSystem creates a clock backed by time.Now.
func NewSystem() Clock {
	return &System{}
}

// Now returns the current time in UTC.
func (c *System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a test clock that always reports the same instant until moved.
type Fixed struct {
	current time.Time
}

// NewFixed creates a fixed clock starting at the given time.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t}
}

// Now returns the fixed current time.
func (f *Fixed) Now() time.Time {
	return f.current
}

// Set moves the fixed clock to the given time.
func (f *Fixed) Set(t time.Time) {
	f.current = t
}

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}
